package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"PhoneCompare/internal/metrics"
	"PhoneCompare/internal/model"
	"PhoneCompare/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AlertService 降价提醒订阅与退订
type AlertService struct {
	alerts repository.AlertRepository
	phones repository.PhoneRepository
	logger *logrus.Logger
}

// NewAlertService 创建订阅服务
func NewAlertService(alerts repository.AlertRepository, phones repository.PhoneRepository, logger *logrus.Logger) *AlertService {
	return &AlertService{alerts: alerts, phones: phones, logger: logger}
}

// Subscribe 订阅降价提醒；重复订阅只会重新激活同一行
func (s *AlertService) Subscribe(ctx context.Context, phoneID uint64, email string) error {
	email = normalizeEmail(email)
	if _, err := s.phones.GetByID(ctx, phoneID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhoneNotFound
		}
		return fmt.Errorf("查询手机失败: %w", err)
	}

	alert := &model.PriceAlert{
		PhoneID:          phoneID,
		Email:            email,
		UnsubscribeToken: uuid.NewString(),
	}
	if err := s.alerts.UpsertAlert(ctx, alert); err != nil {
		return fmt.Errorf("保存订阅失败: %w", err)
	}
	metrics.SubscriptionsTotal.WithLabelValues("subscribe").Inc()
	s.logger.WithField("phone_id", phoneID).Info("新增降价提醒订阅")
	return nil
}

// Unsubscribe 按手机 + 邮箱退订
func (s *AlertService) Unsubscribe(ctx context.Context, phoneID uint64, email string) error {
	n, err := s.alerts.Deactivate(ctx, phoneID, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("退订失败: %w", err)
	}
	if n == 0 {
		return ErrAlertNotFound
	}
	metrics.SubscriptionsTotal.WithLabelValues("unsubscribe").Inc()
	return nil
}

// UnsubscribeByToken 邮件中的退订链接
func (s *AlertService) UnsubscribeByToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrAlertNotFound
	}
	n, err := s.alerts.DeactivateByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("退订失败: %w", err)
	}
	if n == 0 {
		return ErrAlertNotFound
	}
	metrics.SubscriptionsTotal.WithLabelValues("unsubscribe").Inc()
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
