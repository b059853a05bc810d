package service

import (
	"encoding/json"

	"PhoneCompare/internal/model"
)

// 综合胜出理由，按胜出维度数量分档
const (
	ReasonDominates = "Dominates in almost every category"
	ReasonMostKey   = "Wins in most key categories"
	ReasonBalance   = "Best overall balance of features and value"
)

// ScoredPhone 参与对比的手机（评分键已规范化）
type ScoredPhone struct {
	ID     uint64
	Name   string
	Slug   string
	Scores map[string]float64
}

// score 缺失的维度按 0 计
func (p ScoredPhone) score(category string) float64 {
	return p.Scores[category]
}

// CategoryResult 单个维度的胜出者
type CategoryResult struct {
	Winner     string  `json:"winner"`
	WinnerSlug string  `json:"winnerSlug"`
	Score      float64 `json:"score"`
}

// OverallResult 综合胜出者
type OverallResult struct {
	WinnerSlug string  `json:"winnerSlug"`
	WinnerName string  `json:"winnerName"`
	Reason     string  `json:"reason"`
	Score      float64 `json:"score"`
}

// Verdict 对比结论：五个维度各自的胜出者 + overall
type Verdict struct {
	Categories map[string]CategoryResult
	Overall    OverallResult
}

// MarshalJSON 平铺为 {"camera":{...},...,"overall":{...}}
func (v Verdict) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(v.Categories)+1)
	for k, c := range v.Categories {
		out[k] = c
	}
	out["overall"] = v.Overall
	return json.Marshal(out)
}

// CalculateVerdict 计算对比结论，少于两台返回 nil。
// 比较一律用严格大于，分数相同时输入顺序靠前者胜出。
func CalculateVerdict(phones []ScoredPhone) *Verdict {
	if len(phones) < 2 {
		return nil
	}

	verdict := &Verdict{Categories: make(map[string]CategoryResult, len(model.Categories))}
	categoryWinner := make(map[string]int, len(model.Categories))

	for _, cat := range model.Categories {
		best := 0
		for i := 1; i < len(phones); i++ {
			if phones[i].score(cat) > phones[best].score(cat) {
				best = i
			}
		}
		categoryWinner[cat] = best
		verdict.Categories[cat] = CategoryResult{
			Winner:     phones[best].Name,
			WinnerSlug: phones[best].Slug,
			Score:      phones[best].score(cat),
		}
	}

	overall := 0
	bestTotal := totalScore(phones[0])
	for i := 1; i < len(phones); i++ {
		if t := totalScore(phones[i]); t > bestTotal {
			overall, bestTotal = i, t
		}
	}

	wins := 0
	for _, idx := range categoryWinner {
		if idx == overall {
			wins++
		}
	}

	verdict.Overall = OverallResult{
		WinnerSlug: phones[overall].Slug,
		WinnerName: phones[overall].Name,
		Reason:     overallReason(wins),
		Score:      bestTotal,
	}
	return verdict
}

func totalScore(p ScoredPhone) float64 {
	var total float64
	for _, cat := range model.Categories {
		total += p.score(cat)
	}
	return total
}

func overallReason(categoriesWon int) string {
	switch {
	case categoriesWon >= 4:
		return ReasonDominates
	case categoriesWon == 3:
		return ReasonMostKey
	default:
		return ReasonBalance
	}
}
