package service

import (
	"context"
	"errors"
	"fmt"

	"PhoneCompare/internal/model"
	"PhoneCompare/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PriceService 后台改价：写价格记录后触发降价检测
type PriceService struct {
	phones   repository.PhoneRepository
	notifier *PriceDropNotifier
	logger   *logrus.Logger
}

// NewPriceService 创建改价服务
func NewPriceService(phones repository.PhoneRepository, notifier *PriceDropNotifier, logger *logrus.Logger) *PriceService {
	return &PriceService{phones: phones, notifier: notifier, logger: logger}
}

// PriceUpdateResult 改价结果。通知失败不回滚改价，原因放在 NotifyError
type PriceUpdateResult struct {
	Phone       *model.Phone  `json:"phone"`
	Notify      *NotifyResult `json:"notify,omitempty"`
	NotifyError string        `json:"notify_error,omitempty"`
}

// UpdatePrice 基准价优先取 last_price，尚无基准价时用改价前的当前价
func (s *PriceService) UpdatePrice(ctx context.Context, phoneID uint64, newPrice float64) (*PriceUpdateResult, error) {
	if phoneID == 0 || newPrice < 0 {
		return nil, ErrInvalidPriceChange
	}
	phone, err := s.phones.GetByID(ctx, phoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhoneNotFound
		}
		return nil, fmt.Errorf("查询手机失败: %w", err)
	}

	prev := phone.Price
	if err := s.phones.UpdatePriceWithHistory(ctx, phoneID, prev, newPrice); err != nil {
		return nil, err
	}
	phone.Price = newPrice

	oldPrice := phone.LastPrice
	if oldPrice == nil && prev > 0 {
		oldPrice = &prev
	}
	result := &PriceUpdateResult{Phone: phone}
	notify, err := s.notifier.Check(ctx, model.PriceChangeEvent{
		PhoneID:  phone.ID,
		OldPrice: oldPrice,
		NewPrice: &newPrice,
		Name:     phone.Name,
		Slug:     phone.Slug,
		ImageURL: phone.ImageURL,
	})
	if err != nil {
		s.logger.WithError(err).WithField("phone_id", phoneID).Error("改价后降价通知失败")
		result.NotifyError = "price drop notification failed"
		return result, nil
	}
	result.Notify = notify
	return result, nil
}

// CheckPriceDrop 后台手动触发降价检测；展示信息一律取库中的手机数据
func (s *PriceService) CheckPriceDrop(ctx context.Context, phoneID uint64, oldPrice, newPrice *float64) (*NotifyResult, error) {
	if phoneID == 0 || newPrice == nil {
		return nil, ErrInvalidPriceChange
	}
	phone, err := s.phones.GetByID(ctx, phoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhoneNotFound
		}
		return nil, fmt.Errorf("查询手机失败: %w", err)
	}
	return s.notifier.Check(ctx, model.PriceChangeEvent{
		PhoneID:  phone.ID,
		OldPrice: oldPrice,
		NewPrice: newPrice,
		Name:     phone.Name,
		Slug:     phone.Slug,
		ImageURL: phone.ImageURL,
	})
}
