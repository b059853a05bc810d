package favorites

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// CookieName 收藏列表所在 cookie
	CookieName = "favorites"
	// MaxItems cookie 中最多保存的收藏数
	MaxItems = 50
	// CookieMaxAge 一年
	CookieMaxAge = 365 * 24 * 3600
	// MaxSlugLen MaxItems 个 slug 连同分隔符要放得进 4KB 的 cookie
	MaxSlugLen = 72
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidSlug 只接受 Slugify 产出的字符集：小写字母、数字和单个 "-"
func ValidSlug(slug string) bool {
	return len(slug) <= MaxSlugLen && slugPattern.MatchString(slug)
}

// Decode 解析 cookie 值：逗号分隔，去空白、去重，丢弃非法 slug，最多 MaxItems 个
func Decode(raw string) []string {
	if v, err := url.QueryUnescape(raw); err == nil {
		raw = v
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		slug := strings.ToLower(strings.TrimSpace(part))
		if !ValidSlug(slug) {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
		if len(out) == MaxItems {
			break
		}
	}
	return out
}

// Encode 生成 cookie 值
func Encode(slugs []string) string {
	if len(slugs) > MaxItems {
		slugs = slugs[:MaxItems]
	}
	return strings.Join(slugs, ",")
}
