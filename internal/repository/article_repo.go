package repository

import (
	"context"
	"time"

	"PhoneCompare/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository 文章仓储
type ArticleRepository interface {
	// ListPublished 已发布文章，按发布时间倒序
	ListPublished(ctx context.Context, page, pageSize int) ([]*model.Article, int64, error)
	GetBySlug(ctx context.Context, slug string) (*model.Article, error)
	// UpsertBySourceURL 订阅源导入：source_url 冲突时更新标题与正文
	UpsertBySourceURL(ctx context.Context, article *model.Article) error
	SearchArticles(ctx context.Context, query string, limit int) ([]*model.Article, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository 创建文章仓储
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) ListPublished(ctx context.Context, page, pageSize int) ([]*model.Article, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)
	db := r.db.WithContext(ctx).Model(&model.Article{}).Where("published = ?", true)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.Article
	if err := db.
		Omit("body").
		Order("published_at DESC NULLS LAST, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	var a model.Article
	if err := r.db.WithContext(ctx).Where("slug = ? AND published = ?", slug, true).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *articleRepository) UpsertBySourceURL(ctx context.Context, article *model.Article) error {
	article.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_url"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "summary", "body", "published_at", "updated_at"}),
	}).Create(article).Error
}

func (r *articleRepository) SearchArticles(ctx context.Context, query string, limit int) ([]*model.Article, error) {
	if limit <= 0 {
		limit = 20
	}
	var list []*model.Article
	if err := r.db.WithContext(ctx).
		Omit("body").
		Where("published = ? AND title ILIKE ?", true, LikePattern(query)).
		Order("published_at DESC NULLS LAST").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
