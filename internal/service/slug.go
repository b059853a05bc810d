package service

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// maxSlugLen 与 articles.slug 的 varchar(191) 留出后缀空间
const maxSlugLen = 120

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 标题转 URL 标识：小写、非字母数字折叠为 "-"
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	return s
}

// sourceSlug 导入文章的 slug：标题 + 来源链接短哈希，避免同名标题冲突
func sourceSlug(title, sourceURL string) string {
	h := sha256.Sum256([]byte(sourceURL))
	suffix := hex.EncodeToString(h[:])[:8]
	base := Slugify(title)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
