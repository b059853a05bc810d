package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"PhoneCompare/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PhoneFilter 列表筛选条件
type PhoneFilter struct {
	Brand    string   // 品牌
	MinPrice *float64 // 价格下限
	MaxPrice *float64 // 价格上限
	Sort     string   // price_asc / price_desc / newest，默认按名称
}

// PhoneRepository 手机数据仓储接口
type PhoneRepository interface {
	// ListPhones 按过滤条件分页查询
	ListPhones(ctx context.Context, filter PhoneFilter, page, pageSize int) ([]*model.Phone, int64, error)
	GetByID(ctx context.Context, id uint64) (*model.Phone, error)
	GetBySlug(ctx context.Context, slug string) (*model.Phone, error)
	// GetBySlugs 批量查询，返回顺序不保证
	GetBySlugs(ctx context.Context, slugs []string) ([]*model.Phone, error)
	// UpsertPhone 按 slug 新增或覆盖
	UpsertPhone(ctx context.Context, phone *model.Phone) error
	// UpdateLastPrice 更新降价检测基准价
	UpdateLastPrice(ctx context.Context, phoneID uint64, price float64) error
	// UpdatePriceWithHistory 改当前价并追加价格记录（同一事务）
	UpdatePriceWithHistory(ctx context.Context, phoneID uint64, oldPrice, newPrice float64) error
	ListPriceHistory(ctx context.Context, phoneID uint64, limit int) ([]*model.PriceHistory, error)
	SearchPhones(ctx context.Context, query string, limit int) ([]*model.Phone, error)
}

type phoneRepository struct {
	db *gorm.DB
}

// NewPhoneRepository 创建 PhoneRepository 实例
func NewPhoneRepository(db *gorm.DB) PhoneRepository {
	return &phoneRepository{db: db}
}

func (r *phoneRepository) ListPhones(ctx context.Context, filter PhoneFilter, page, pageSize int) ([]*model.Phone, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)

	db := r.db.WithContext(ctx).Model(&model.Phone{})
	if filter.Brand != "" {
		db = db.Where("LOWER(brand) = ?", strings.ToLower(filter.Brand))
	}
	if filter.MinPrice != nil {
		db = db.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		db = db.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var phones []*model.Phone
	if err := db.
		Order(phoneOrder(filter.Sort)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&phones).Error; err != nil {
		return nil, 0, err
	}
	return phones, total, nil
}

func phoneOrder(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC, id ASC"
	case "price_desc":
		return "price DESC, id ASC"
	case "newest":
		return "created_at DESC, id DESC"
	default:
		return "name ASC, id ASC"
	}
}

func (r *phoneRepository) GetByID(ctx context.Context, id uint64) (*model.Phone, error) {
	var p model.Phone
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *phoneRepository) GetBySlug(ctx context.Context, slug string) (*model.Phone, error) {
	var p model.Phone
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *phoneRepository) GetBySlugs(ctx context.Context, slugs []string) ([]*model.Phone, error) {
	if len(slugs) == 0 {
		return []*model.Phone{}, nil
	}
	var phones []*model.Phone
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&phones).Error; err != nil {
		return nil, err
	}
	return phones, nil
}

func (r *phoneRepository) UpsertPhone(ctx context.Context, phone *model.Phone) error {
	phone.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "brand", "image_url", "price", "scores", "specs", "updated_at"}),
	}).Create(phone).Error; err != nil {
		return err
	}
	if phone.ID == 0 {
		if err := r.db.WithContext(ctx).Model(phone).Where("slug = ?", phone.Slug).Select("id").First(phone).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *phoneRepository) UpdateLastPrice(ctx context.Context, phoneID uint64, price float64) error {
	return r.db.WithContext(ctx).Model(&model.Phone{}).
		Where("id = ?", phoneID).
		Updates(map[string]interface{}{
			"last_price": price,
			"updated_at": time.Now(),
		}).Error
}

func (r *phoneRepository) UpdatePriceWithHistory(ctx context.Context, phoneID uint64, oldPrice, newPrice float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Phone{}).
			Where("id = ?", phoneID).
			Updates(map[string]interface{}{"price": newPrice, "updated_at": time.Now()}).Error; err != nil {
			return fmt.Errorf("更新价格失败: %w", err)
		}
		rec := &model.PriceHistory{PhoneID: phoneID, OldPrice: oldPrice, NewPrice: newPrice, RecordedAt: time.Now()}
		if err := tx.Create(rec).Error; err != nil {
			return fmt.Errorf("写入价格记录失败: %w", err)
		}
		return nil
	})
}

func (r *phoneRepository) ListPriceHistory(ctx context.Context, phoneID uint64, limit int) ([]*model.PriceHistory, error) {
	if limit <= 0 {
		limit = 30
	}
	var list []*model.PriceHistory
	if err := r.db.WithContext(ctx).
		Where("phone_id = ?", phoneID).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *phoneRepository) SearchPhones(ctx context.Context, query string, limit int) ([]*model.Phone, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := LikePattern(query)
	var phones []*model.Phone
	if err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR brand ILIKE ?", pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&phones).Error; err != nil {
		return nil, err
	}
	return phones, nil
}
