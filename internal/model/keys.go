package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gorm.io/datatypes"
)

// 评分维度，顺序即对比结果的输出顺序
const (
	CategoryCamera      = "camera"
	CategoryBattery     = "battery"
	CategoryPerformance = "performance"
	CategoryDisplay     = "display"
	CategoryValue       = "value"
)

// Categories 参与对比的五个维度
var Categories = []string{CategoryCamera, CategoryBattery, CategoryPerformance, CategoryDisplay, CategoryValue}

// NormalizeKey 统一键名：去空白 + 小写
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// normalizeMap 已是规范形式的键优先；其余按字典序写入，保证结果与 map 遍历顺序无关
func normalizeMap[V any](raw map[string]V) map[string]V {
	out := make(map[string]V, len(raw))
	var pending []string
	for k, v := range raw {
		nk := NormalizeKey(k)
		if nk == "" {
			continue
		}
		if nk == k {
			out[nk] = v
			continue
		}
		pending = append(pending, k)
	}
	sort.Strings(pending)
	for _, k := range pending {
		nk := NormalizeKey(k)
		if _, ok := out[nk]; !ok {
			out[nk] = raw[k]
		}
	}
	return out
}

// NormalizeScores 入库前规范化评分键名
func NormalizeScores(raw map[string]float64) map[string]float64 {
	return normalizeMap(raw)
}

// SpecMap 规范化后的参数表，键全部小写
type SpecMap map[string]string

// Get 大小写不敏感的参数查询
func (m SpecMap) Get(key string) (string, bool) {
	v, ok := m[NormalizeKey(key)]
	return v, ok
}

// NormalizeSpecs 入库前规范化参数键名，值统一转为字符串
func NormalizeSpecs(raw map[string]any) SpecMap {
	strs := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		strs[k] = fmt.Sprint(v)
	}
	return SpecMap(normalizeMap(strs))
}

// ParseScores 读取 jsonb 评分列
func ParseScores(j datatypes.JSON) (map[string]float64, error) {
	scores := map[string]float64{}
	if len(j) == 0 {
		return scores, nil
	}
	if err := json.Unmarshal(j, &scores); err != nil {
		return nil, fmt.Errorf("解析评分失败: %w", err)
	}
	return NormalizeScores(scores), nil
}

// ParseSpecs 读取 jsonb 参数列
func ParseSpecs(j datatypes.JSON) (SpecMap, error) {
	if len(j) == 0 {
		return SpecMap{}, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(j, &raw); err != nil {
		return nil, fmt.Errorf("解析参数失败: %w", err)
	}
	return NormalizeSpecs(raw), nil
}

// EncodeJSON 写入 jsonb 列
func EncodeJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
