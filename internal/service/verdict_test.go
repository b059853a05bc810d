package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(slug string, camera, battery, performance, display, value float64) ScoredPhone {
	return ScoredPhone{
		Name: "Phone " + slug,
		Slug: slug,
		Scores: map[string]float64{
			"camera":      camera,
			"battery":     battery,
			"performance": performance,
			"display":     display,
			"value":       value,
		},
	}
}

func TestCalculateVerdictNeedsTwoPhones(t *testing.T) {
	assert.Nil(t, CalculateVerdict(nil))
	assert.Nil(t, CalculateVerdict([]ScoredPhone{scored("a", 1, 1, 1, 1, 1)}))
}

func TestCalculateVerdictDominates(t *testing.T) {
	a := scored("a", 9, 9, 9, 9, 1)
	b := scored("b", 1, 1, 1, 1, 9)

	v := CalculateVerdict([]ScoredPhone{a, b})
	require.NotNil(t, v)

	assert.Equal(t, "a", v.Overall.WinnerSlug)
	assert.Equal(t, "Phone a", v.Overall.WinnerName)
	assert.Equal(t, 37.0, v.Overall.Score)
	assert.Equal(t, ReasonDominates, v.Overall.Reason)

	assert.Equal(t, "a", v.Categories["camera"].WinnerSlug)
	assert.Equal(t, 9.0, v.Categories["camera"].Score)
	assert.Equal(t, "b", v.Categories["value"].WinnerSlug)
	assert.Equal(t, "Phone b", v.Categories["value"].Winner)
}

func TestCalculateVerdictReasonThresholds(t *testing.T) {
	// 胜 3 个维度
	v := CalculateVerdict([]ScoredPhone{
		scored("a", 9, 9, 9, 1, 1),
		scored("b", 1, 1, 1, 5, 5),
	})
	require.NotNil(t, v)
	assert.Equal(t, "a", v.Overall.WinnerSlug)
	assert.Equal(t, ReasonMostKey, v.Overall.Reason)

	// 总分最高但只胜 2 个维度
	v = CalculateVerdict([]ScoredPhone{
		scored("a", 10, 10, 0, 0, 0),
		scored("b", 0, 0, 5, 5, 5),
	})
	require.NotNil(t, v)
	assert.Equal(t, "a", v.Overall.WinnerSlug)
	assert.Equal(t, 20.0, v.Overall.Score)
	assert.Equal(t, ReasonBalance, v.Overall.Reason)

	// 全胜
	v = CalculateVerdict([]ScoredPhone{
		scored("a", 1, 1, 1, 1, 1),
		scored("b", 2, 2, 2, 2, 2),
	})
	require.NotNil(t, v)
	assert.Equal(t, "b", v.Overall.WinnerSlug)
	assert.Equal(t, ReasonDominates, v.Overall.Reason)
}

func TestCalculateVerdictTiesGoToFirst(t *testing.T) {
	v := CalculateVerdict([]ScoredPhone{
		scored("first", 5, 5, 5, 5, 5),
		scored("second", 5, 5, 5, 5, 5),
		scored("third", 5, 5, 5, 5, 5),
	})
	require.NotNil(t, v)
	for cat, res := range v.Categories {
		assert.Equal(t, "first", res.WinnerSlug, cat)
	}
	assert.Equal(t, "first", v.Overall.WinnerSlug)
	assert.Equal(t, ReasonDominates, v.Overall.Reason)
}

func TestCalculateVerdictMissingScoresDefaultToZero(t *testing.T) {
	a := ScoredPhone{Name: "A", Slug: "a", Scores: map[string]float64{"camera": 3}}
	b := ScoredPhone{Name: "B", Slug: "b"}

	v := CalculateVerdict([]ScoredPhone{b, a})
	require.NotNil(t, v)
	assert.Equal(t, "a", v.Categories["camera"].WinnerSlug)
	// 其它维度都是 0:0，靠前的 b 胜出
	assert.Equal(t, "b", v.Categories["battery"].WinnerSlug)
	assert.Equal(t, 0.0, v.Categories["battery"].Score)
	assert.Equal(t, "a", v.Overall.WinnerSlug)
	assert.Equal(t, 3.0, v.Overall.Score)
	assert.Equal(t, ReasonBalance, v.Overall.Reason)
}

func TestCalculateVerdictNegativeScores(t *testing.T) {
	v := CalculateVerdict([]ScoredPhone{
		scored("a", -5, -5, -5, -5, -5),
		scored("b", -1, -1, -1, -1, -1),
	})
	require.NotNil(t, v)
	assert.Equal(t, "b", v.Overall.WinnerSlug)
	assert.Equal(t, -5.0, v.Overall.Score)
}

func TestCalculateVerdictHigherTotalWins(t *testing.T) {
	v := CalculateVerdict([]ScoredPhone{
		scored("low", 1, 2, 3, 4, 5),
		scored("high", 2, 2, 3, 4, 5),
	})
	require.NotNil(t, v)
	assert.Equal(t, "high", v.Overall.WinnerSlug)
}

func TestVerdictJSONShape(t *testing.T) {
	v := CalculateVerdict([]ScoredPhone{
		scored("a", 9, 9, 9, 9, 1),
		scored("b", 1, 1, 1, 1, 9),
	})
	require.NotNil(t, v)

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded, 6)
	assert.Equal(t, "a", decoded["overall"]["winnerSlug"])
	assert.Equal(t, ReasonDominates, decoded["overall"]["reason"])
	assert.Equal(t, "b", decoded["value"]["winnerSlug"])
	assert.Equal(t, 9.0, decoded["value"]["score"])
}
