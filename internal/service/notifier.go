package service

import (
	"context"
	"fmt"

	"PhoneCompare/internal/interfaces"
	"PhoneCompare/internal/metrics"
	"PhoneCompare/internal/model"

	"github.com/sirupsen/logrus"
)

// BaselineStore 降价检测基准价的持久化
type BaselineStore interface {
	UpdateLastPrice(ctx context.Context, phoneID uint64, price float64) error
}

// NotifyResult 降价检测结果，对外输出 {"notified": n}
type NotifyResult struct {
	Notified int `json:"notified"`
	Failed   int `json:"failed,omitempty"`
}

// PriceDropNotifier 降价检测：确认降价后投递通知，并把新价格记为基准价
type PriceDropNotifier struct {
	dispatcher  interfaces.PriceDropDispatcher
	baseline    BaselineStore
	mailEnabled bool
	logger      *logrus.Logger
}

// NewPriceDropNotifier mailEnabled=false 时（未配置发信凭据）所有降价检测都不发送，dispatcher 可为 nil
func NewPriceDropNotifier(dispatcher interfaces.PriceDropDispatcher, baseline BaselineStore, mailEnabled bool, logger *logrus.Logger) *PriceDropNotifier {
	return &PriceDropNotifier{
		dispatcher:  dispatcher,
		baseline:    baseline,
		mailEnabled: mailEnabled,
		logger:      logger,
	}
}

// Check 处理一次价格变化：
// 1. 缺 phone_id 或新价格 -> ErrInvalidPriceChange
// 2. 无旧价格或未降价 -> notified=0
// 3. 未配置发信 -> notified=0 并告警
// 4. 投递通知
// 5. 更新基准价（无论通知了几个人）
// 投递失败时不更新基准价，下次检测会重新通知。
func (n *PriceDropNotifier) Check(ctx context.Context, ev model.PriceChangeEvent) (*NotifyResult, error) {
	if ev.PhoneID == 0 || ev.NewPrice == nil {
		metrics.PriceChecksTotal.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidPriceChange
	}
	newPrice := *ev.NewPrice

	if ev.OldPrice == nil || newPrice >= *ev.OldPrice {
		metrics.PriceChecksTotal.WithLabelValues("no_drop").Inc()
		return &NotifyResult{Notified: 0}, nil
	}
	oldPrice := *ev.OldPrice

	log := n.logger.WithFields(logrus.Fields{
		"phone_id":  ev.PhoneID,
		"old_price": oldPrice,
		"new_price": newPrice,
	})

	if !n.mailEnabled || n.dispatcher == nil {
		metrics.PriceChecksTotal.WithLabelValues("disabled").Inc()
		log.Warn("未配置发信服务，跳过降价通知")
		return &NotifyResult{Notified: 0}, nil
	}

	meta := interfaces.PhoneMeta{Name: ev.Name, Slug: ev.Slug, ImageURL: ev.ImageURL}
	dispatched, err := n.dispatcher.CheckAndNotifyPriceDrop(ctx, ev.PhoneID, newPrice, oldPrice, meta)
	if err != nil {
		metrics.PriceChecksTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("降价通知投递失败: %w", err)
	}

	if err := n.baseline.UpdateLastPrice(ctx, ev.PhoneID, newPrice); err != nil {
		metrics.PriceChecksTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("更新基准价失败: %w", err)
	}

	metrics.PriceChecksTotal.WithLabelValues("dispatched").Inc()
	result := &NotifyResult{}
	if dispatched != nil {
		result.Notified = dispatched.Notified
		result.Failed = dispatched.Failed
	}
	log.WithField("notified", result.Notified).Info("降价通知完成")
	return result, nil
}
