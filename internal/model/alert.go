package model

import "time"

// PriceAlert 降价提醒订阅，同一手机 + 邮箱只保留一行（uq_alert_phone_email）
// 退订只把 active 置为 false，不做物理删除
type PriceAlert struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PhoneID          uint64    `gorm:"column:phone_id;type:bigint;not null;uniqueIndex:uq_alert_phone_email" json:"phone_id"`
	Email            string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_alert_phone_email" json:"email"`
	Active           bool      `gorm:"column:active;type:boolean;default:true" json:"active"`
	UnsubscribeToken string    `gorm:"column:unsubscribe_token;type:varchar(64);uniqueIndex;not null" json:"-"`
	CreatedAt        time.Time `gorm:"column:created_at;type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;type:timestamp;default:now()" json:"updated_at"`
}

func (PriceAlert) TableName() string { return "price_alerts" }

// PriceChangeEvent 一次价格变化，仅在降价检测时使用，不落库
type PriceChangeEvent struct {
	PhoneID  uint64
	OldPrice *float64
	NewPrice *float64
	Name     string
	Slug     string
	ImageURL string
}
