package service

import (
	"context"
	"fmt"

	"PhoneCompare/internal/interfaces"
	"PhoneCompare/internal/mailer"
	"PhoneCompare/internal/metrics"
	"PhoneCompare/internal/repository"

	"github.com/sirupsen/logrus"
)

// AlertDispatcher 查出手机的有效订阅，逐个发送降价邮件
type AlertDispatcher struct {
	alerts  repository.AlertRepository
	sender  interfaces.MailSender
	siteURL string
	logger  *logrus.Logger
}

var _ interfaces.PriceDropDispatcher = (*AlertDispatcher)(nil)

// NewAlertDispatcher 创建降价邮件投递
func NewAlertDispatcher(alerts repository.AlertRepository, sender interfaces.MailSender, siteURL string, logger *logrus.Logger) *AlertDispatcher {
	return &AlertDispatcher{alerts: alerts, sender: sender, siteURL: siteURL, logger: logger}
}

// CheckAndNotifyPriceDrop 单个订阅者发送失败只记录，不影响其他人
func (d *AlertDispatcher) CheckAndNotifyPriceDrop(ctx context.Context, phoneID uint64, newPrice, oldPrice float64, meta interfaces.PhoneMeta) (*interfaces.DispatchResult, error) {
	result := &interfaces.DispatchResult{}
	if newPrice >= oldPrice {
		return result, nil
	}

	subs, err := d.alerts.ListActiveByPhone(ctx, phoneID)
	if err != nil {
		return nil, fmt.Errorf("查询订阅失败: %w", err)
	}
	if len(subs) == 0 {
		d.logger.WithField("phone_id", phoneID).Debug("无有效订阅")
		return result, nil
	}

	for _, sub := range subs {
		email, err := mailer.RenderPriceDrop(mailer.PriceDropData{
			To:               sub.Email,
			PhoneName:        meta.Name,
			PhoneSlug:        meta.Slug,
			ImageURL:         meta.ImageURL,
			OldPrice:         oldPrice,
			NewPrice:         newPrice,
			SiteURL:          d.siteURL,
			UnsubscribeToken: sub.UnsubscribeToken,
		})
		if err == nil {
			_, err = d.sender.Send(ctx, email)
		}
		if err != nil {
			result.Failed++
			metrics.AlertEmailsTotal.WithLabelValues("failed").Inc()
			d.logger.WithError(err).WithFields(logrus.Fields{
				"phone_id": phoneID,
				"alert_id": sub.ID,
			}).Warn("降价邮件发送失败")
			continue
		}
		result.Notified++
		metrics.AlertEmailsTotal.WithLabelValues("sent").Inc()
	}
	return result, nil
}
