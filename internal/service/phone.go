package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"PhoneCompare/internal/model"
	"PhoneCompare/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PhoneService 手机列表、详情与后台录入
type PhoneService struct {
	repo   repository.PhoneRepository
	logger *logrus.Logger
}

// NewPhoneService 创建 PhoneService
func NewPhoneService(repo repository.PhoneRepository, logger *logrus.Logger) *PhoneService {
	return &PhoneService{repo: repo, logger: logger}
}

// PhoneListResult 列表返回
type PhoneListResult struct {
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Total    int64          `json:"total"`
	Items    []*model.Phone `json:"items"`
}

// List 分页列表
func (s *PhoneService) List(ctx context.Context, filter repository.PhoneFilter, page, pageSize int) (*PhoneListResult, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)
	phones, total, err := s.repo.ListPhones(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	if phones == nil {
		phones = []*model.Phone{}
	}
	return &PhoneListResult{Page: page, PageSize: pageSize, Total: total, Items: phones}, nil
}

// PhoneDetail 详情页：规范化后的评分与参数 + 价格走势
type PhoneDetail struct {
	Phone        *model.Phone          `json:"phone"`
	Scores       map[string]float64    `json:"scores"`
	Specs        model.SpecMap         `json:"specs"`
	PriceHistory []*model.PriceHistory `json:"price_history"`
}

// Get 按 slug 查详情
func (s *PhoneService) Get(ctx context.Context, slug string) (*PhoneDetail, error) {
	phone, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhoneNotFound
		}
		return nil, err
	}

	detail := &PhoneDetail{Phone: phone}
	if detail.Scores, err = model.ParseScores(phone.Scores); err != nil {
		s.logger.WithError(err).WithField("slug", slug).Warn("评分数据异常")
		detail.Scores = map[string]float64{}
	}
	if detail.Specs, err = model.ParseSpecs(phone.Specs); err != nil {
		s.logger.WithError(err).WithField("slug", slug).Warn("参数数据异常")
		detail.Specs = model.SpecMap{}
	}
	history, err := s.repo.ListPriceHistory(ctx, phone.ID, 30)
	if err != nil {
		s.logger.WithError(err).WithField("phone_id", phone.ID).Warn("ListPriceHistory")
		history = nil
	}
	if history == nil {
		history = []*model.PriceHistory{}
	}
	detail.PriceHistory = history
	return detail, nil
}

// PhoneInput 后台录入参数，评分与参数键名在这里统一规范化
type PhoneInput struct {
	Name     string             `json:"name" binding:"required"`
	Slug     string             `json:"slug" binding:"required"`
	Brand    string             `json:"brand"`
	ImageURL string             `json:"image_url"`
	Price    float64            `json:"price" binding:"gte=0"`
	Scores   map[string]float64 `json:"scores"`
	Specs    map[string]any     `json:"specs"`
}

// Upsert 按 slug 新增或覆盖
func (s *PhoneService) Upsert(ctx context.Context, in *PhoneInput) (*model.Phone, error) {
	name := strings.TrimSpace(in.Name)
	slug := Slugify(in.Slug)
	if name == "" || slug == "" {
		return nil, ErrInvalidPhone
	}
	scores, err := model.EncodeJSON(model.NormalizeScores(in.Scores))
	if err != nil {
		return nil, fmt.Errorf("编码评分失败: %w", err)
	}
	specs, err := model.EncodeJSON(model.NormalizeSpecs(in.Specs))
	if err != nil {
		return nil, fmt.Errorf("编码参数失败: %w", err)
	}

	phone := &model.Phone{
		Name:     name,
		Slug:     slug,
		Brand:    strings.TrimSpace(in.Brand),
		ImageURL: strings.TrimSpace(in.ImageURL),
		Price:    in.Price,
		Scores:   scores,
		Specs:    specs,
	}
	if err := s.repo.UpsertPhone(ctx, phone); err != nil {
		return nil, fmt.Errorf("保存手机失败: %w", err)
	}
	s.logger.WithField("slug", slug).Info("手机数据已保存")
	return phone, nil
}
