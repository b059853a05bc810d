package service

import (
	"context"
	"fmt"
	"strings"

	"PhoneCompare/internal/model"
	"PhoneCompare/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	maxQueryLen        = 100
)

// SearchService 站内搜索：手机 + 文章
type SearchService struct {
	phones   repository.PhoneRepository
	articles repository.ArticleRepository
	logger   *logrus.Logger
}

func NewSearchService(phones repository.PhoneRepository, articles repository.ArticleRepository, logger *logrus.Logger) *SearchService {
	return &SearchService{phones: phones, articles: articles, logger: logger}
}

// SearchResult 搜索返回
type SearchResult struct {
	Query    string           `json:"query"`
	Phones   []*model.Phone   `json:"phones"`
	Articles []*model.Article `json:"articles"`
}

// Search 关键字为空返回 ErrEmptyQuery；limit 对两类结果分别生效
func (s *SearchService) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if r := []rune(query); len(r) > maxQueryLen {
		query = string(r[:maxQueryLen])
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	phones, err := s.phones.SearchPhones(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("搜索手机失败: %w", err)
	}
	articles, err := s.articles.SearchArticles(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("搜索文章失败: %w", err)
	}
	if phones == nil {
		phones = []*model.Phone{}
	}
	if articles == nil {
		articles = []*model.Article{}
	}
	return &SearchResult{Query: query, Phones: phones, Articles: articles}, nil
}
