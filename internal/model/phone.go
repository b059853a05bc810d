package model

import (
	"time"

	"gorm.io/datatypes"
)

// Phone 手机主表
type Phone struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	Name      string         `gorm:"column:name;type:varchar(128);not null;comment:展示名称" json:"name"`
	Slug      string         `gorm:"column:slug;type:varchar(128);uniqueIndex;not null;comment:URL标识" json:"slug"`
	Brand     string         `gorm:"column:brand;type:varchar(64);index;comment:品牌" json:"brand"`
	ImageURL  string         `gorm:"column:image_url;type:varchar(512);comment:主图" json:"image_url"`
	Price     float64        `gorm:"column:price;type:numeric(12,2);default:0;comment:当前价格" json:"price"`
	LastPrice *float64       `gorm:"column:last_price;type:numeric(12,2);comment:降价检测基准价" json:"last_price,omitempty"`
	Scores    datatypes.JSON `gorm:"column:scores;type:jsonb;comment:各维度评分" json:"scores"`
	Specs     datatypes.JSON `gorm:"column:specs;type:jsonb;comment:参数表" json:"specs"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间" json:"updated_at"`
}

// PriceHistory 价格变更记录（后台改价时追加）
type PriceHistory struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PhoneID    uint64    `gorm:"column:phone_id;type:bigint;index;not null" json:"phone_id"`
	OldPrice   float64   `gorm:"column:old_price;type:numeric(12,2);not null" json:"old_price"`
	NewPrice   float64   `gorm:"column:new_price;type:numeric(12,2);not null" json:"new_price"`
	RecordedAt time.Time `gorm:"column:recorded_at;type:timestamp;default:now()" json:"recorded_at"`
}

func (Phone) TableName() string        { return "phones" }
func (PriceHistory) TableName() string { return "price_histories" }
