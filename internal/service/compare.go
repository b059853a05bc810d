package service

import (
	"context"
	"fmt"
	"strings"

	"PhoneCompare/internal/metrics"
	"PhoneCompare/internal/model"
	"PhoneCompare/internal/repository"

	"github.com/sirupsen/logrus"
)

// CompareService 手机对比：按 slug 取手机并计算对比结论
type CompareService struct {
	repo   repository.PhoneRepository
	logger *logrus.Logger
}

// NewCompareService 创建 CompareService
func NewCompareService(repo repository.PhoneRepository, logger *logrus.Logger) *CompareService {
	return &CompareService{repo: repo, logger: logger}
}

// CompareResult 对比接口返回
type CompareResult struct {
	Phones  []*model.Phone `json:"phones"`
	Verdict *Verdict       `json:"verdict"`
}

// Compare slugs 按请求顺序参与对比（去重、忽略未知 slug），不足两台返回 ErrNotEnoughPhones
func (s *CompareService) Compare(ctx context.Context, slugs []string) (*CompareResult, error) {
	ordered := uniqueSlugs(slugs)
	if len(ordered) < 2 {
		return nil, ErrNotEnoughPhones
	}

	found, err := s.repo.GetBySlugs(ctx, ordered)
	if err != nil {
		return nil, fmt.Errorf("查询对比手机失败: %w", err)
	}
	bySlug := make(map[string]*model.Phone, len(found))
	for _, p := range found {
		bySlug[p.Slug] = p
	}

	phones := make([]*model.Phone, 0, len(ordered))
	scoredPhones := make([]ScoredPhone, 0, len(ordered))
	for _, slug := range ordered {
		p, ok := bySlug[slug]
		if !ok {
			s.logger.WithField("slug", slug).Debug("对比的手机不存在，跳过")
			continue
		}
		sp, err := ToScoredPhone(p)
		if err != nil {
			s.logger.WithError(err).WithField("slug", slug).Warn("评分数据异常，按 0 分处理")
			sp = ScoredPhone{ID: p.ID, Name: p.Name, Slug: p.Slug}
		}
		phones = append(phones, p)
		scoredPhones = append(scoredPhones, sp)
	}

	verdict := CalculateVerdict(scoredPhones)
	if verdict == nil {
		return nil, ErrNotEnoughPhones
	}
	metrics.VerdictsTotal.Inc()
	return &CompareResult{Phones: phones, Verdict: verdict}, nil
}

// ToScoredPhone 数据库模型转为对比输入
func ToScoredPhone(p *model.Phone) (ScoredPhone, error) {
	scores, err := model.ParseScores(p.Scores)
	if err != nil {
		return ScoredPhone{}, err
	}
	return ScoredPhone{ID: p.ID, Name: p.Name, Slug: p.Slug, Scores: scores}, nil
}

func uniqueSlugs(slugs []string) []string {
	seen := make(map[string]struct{}, len(slugs))
	out := make([]string, 0, len(slugs))
	for _, s := range slugs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
