package repository

import (
	"context"
	"time"

	"PhoneCompare/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlertRepository 降价提醒订阅仓储
type AlertRepository interface {
	// UpsertAlert 按 (phone_id, email) 新增或重新激活；冲突时保留原退订 token
	UpsertAlert(ctx context.Context, alert *model.PriceAlert) error
	// Deactivate 退订，返回受影响行数
	Deactivate(ctx context.Context, phoneID uint64, email string) (int64, error)
	DeactivateByToken(ctx context.Context, token string) (int64, error)
	ListActiveByPhone(ctx context.Context, phoneID uint64) ([]*model.PriceAlert, error)
}

type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository 创建订阅仓储
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) UpsertAlert(ctx context.Context, alert *model.PriceAlert) error {
	alert.Active = true
	alert.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_id"}, {Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"active", "updated_at"}),
	}).Create(alert).Error
}

func (r *alertRepository) Deactivate(ctx context.Context, phoneID uint64, email string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.PriceAlert{}).
		Where("phone_id = ? AND email = ?", phoneID, email).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (r *alertRepository) DeactivateByToken(ctx context.Context, token string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.PriceAlert{}).
		Where("unsubscribe_token = ?", token).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (r *alertRepository) ListActiveByPhone(ctx context.Context, phoneID uint64) ([]*model.PriceAlert, error) {
	var list []*model.PriceAlert
	if err := r.db.WithContext(ctx).
		Where("phone_id = ? AND active = ?", phoneID, true).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
