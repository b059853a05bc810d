package service

import (
	"context"
	"testing"

	"PhoneCompare/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertSubscribe(t *testing.T) {
	logger, _ := newTestLogger()
	phones := newFakePhoneRepo(&model.Phone{ID: 1, Slug: "pixel-9"})
	alerts := &fakeAlertRepo{}
	s := NewAlertService(alerts, phones, logger)

	require.NoError(t, s.Subscribe(context.Background(), 1, "  Alice@Example.COM "))
	require.Len(t, alerts.alerts, 1)
	assert.Equal(t, "alice@example.com", alerts.alerts[0].Email)
	assert.NotEmpty(t, alerts.alerts[0].UnsubscribeToken)

	// 重复订阅不新增
	require.NoError(t, s.Subscribe(context.Background(), 1, "alice@example.com"))
	assert.Len(t, alerts.alerts, 1)
}

func TestAlertSubscribeUnknownPhone(t *testing.T) {
	logger, _ := newTestLogger()
	s := NewAlertService(&fakeAlertRepo{}, newFakePhoneRepo(), logger)

	err := s.Subscribe(context.Background(), 42, "alice@example.com")
	assert.ErrorIs(t, err, ErrPhoneNotFound)
}

func TestAlertUnsubscribe(t *testing.T) {
	logger, _ := newTestLogger()
	alerts := activeAlerts(1, "alice@example.com")
	s := NewAlertService(alerts, newFakePhoneRepo(), logger)

	require.NoError(t, s.Unsubscribe(context.Background(), 1, "ALICE@example.com"))
	assert.False(t, alerts.alerts[0].Active)

	assert.ErrorIs(t, s.Unsubscribe(context.Background(), 2, "alice@example.com"), ErrAlertNotFound)
}

func TestAlertUnsubscribeByToken(t *testing.T) {
	logger, _ := newTestLogger()
	alerts := activeAlerts(1, "alice@example.com")
	s := NewAlertService(alerts, newFakePhoneRepo(), logger)

	require.NoError(t, s.UnsubscribeByToken(context.Background(), " tok-alice@example.com "))
	assert.False(t, alerts.alerts[0].Active)

	assert.ErrorIs(t, s.UnsubscribeByToken(context.Background(), ""), ErrAlertNotFound)
	assert.ErrorIs(t, s.UnsubscribeByToken(context.Background(), "nope"), ErrAlertNotFound)
}
