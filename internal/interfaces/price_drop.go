package interfaces

import "context"

// PhoneMeta 降价邮件中展示的手机信息
type PhoneMeta struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"image_url"`
}

// DispatchResult 一次降价通知的投递结果
type DispatchResult struct {
	Notified int `json:"notified"` // 成功发送的订阅者数量
	Failed   int `json:"failed"`   // 发送失败的订阅者数量
}

// PriceDropDispatcher 降价通知投递：查出有效订阅并逐个发信
type PriceDropDispatcher interface {
	CheckAndNotifyPriceDrop(ctx context.Context, phoneID uint64, newPrice, oldPrice float64, meta PhoneMeta) (*DispatchResult, error)
}
