package model

import "time"

// Article 资讯/评测文章，Body 为 markdown
type Article struct {
	ID          uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Slug        string     `gorm:"column:slug;type:varchar(191);uniqueIndex;not null" json:"slug"`
	Title       string     `gorm:"column:title;type:varchar(256);not null" json:"title"`
	Summary     string     `gorm:"column:summary;type:text" json:"summary"`
	Body        string     `gorm:"column:body;type:text" json:"body,omitempty"`
	SourceURL   *string    `gorm:"column:source_url;type:varchar(512);uniqueIndex" json:"source_url,omitempty"` // 从订阅源导入时非空
	Published   bool       `gorm:"column:published;type:boolean;default:false" json:"published"`
	PublishedAt *time.Time `gorm:"column:published_at;type:timestamp" json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamp;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:timestamp;default:now()" json:"updated_at"`
}

func (Article) TableName() string { return "articles" }
