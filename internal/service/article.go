package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"PhoneCompare/internal/model"
	"PhoneCompare/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

// maxPerFeed 单个订阅源一次最多导入的条目数
const maxPerFeed = 20

// ArticleService 文章列表、详情渲染与订阅源导入
type ArticleService struct {
	repo      repository.ArticleRepository
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	parser    *gofeed.Parser
	logger    *logrus.Logger
}

// stripTags 摘要只保留纯文本
var stripTags = bluemonday.StrictPolicy()

// NewArticleService httpClient 为空时 gofeed 使用默认客户端。
// 正文可能是 markdown 也可能是订阅源带来的 HTML，goldmark 原样输出 HTML 后统一经 bluemonday 清洗
func NewArticleService(repo repository.ArticleRepository, httpClient *http.Client, logger *logrus.Logger) *ArticleService {
	parser := gofeed.NewParser()
	if httpClient != nil {
		parser.Client = httpClient
	}
	return &ArticleService{
		repo:      repo,
		md:        goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe())),
		sanitizer: bluemonday.UGCPolicy(),
		parser:    parser,
		logger:    logger,
	}
}

// ArticleListResult 列表返回
type ArticleListResult struct {
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int64            `json:"total"`
	Items    []*model.Article `json:"items"`
}

// List 已发布文章
func (s *ArticleService) List(ctx context.Context, page, pageSize int) (*ArticleListResult, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)
	list, total, err := s.repo.ListPublished(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*model.Article{}
	}
	return &ArticleListResult{Page: page, PageSize: pageSize, Total: total, Items: list}, nil
}

// ArticleDetail 详情：正文已渲染为 HTML
type ArticleDetail struct {
	Article *model.Article `json:"article"`
	HTML    string         `json:"html"`
}

// Get 按 slug 查询并渲染 markdown
func (s *ArticleService) Get(ctx context.Context, slug string) (*ArticleDetail, error) {
	a, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &ArticleDetail{Article: a, HTML: s.RenderMarkdown(a.Body)}, nil
}

// RenderMarkdown 渲染 markdown/HTML 正文并过滤脚本等不安全标签，渲染失败时退回转义后的原文
func (s *ArticleService) RenderMarkdown(text string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(text), &buf); err != nil {
		s.logger.WithError(err).Warn("markdown 渲染失败")
		return html.EscapeString(text)
	}
	return s.sanitizer.Sanitize(buf.String())
}

// ImportResult 导入统计
type ImportResult struct {
	Feed     string `json:"feed"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// ImportFeed 拉取 RSS/Atom 并按 source_url 入库
func (s *ArticleService) ImportFeed(ctx context.Context, feedURL string) (*ImportResult, error) {
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("解析订阅源失败: %w", err)
	}
	return s.importItems(ctx, feed)
}

// ImportFeedString 导入已获取的订阅源内容
func (s *ArticleService) ImportFeedString(ctx context.Context, content string) (*ImportResult, error) {
	feed, err := s.parser.ParseString(content)
	if err != nil {
		return nil, fmt.Errorf("解析订阅源失败: %w", err)
	}
	return s.importItems(ctx, feed)
}

func (s *ArticleService) importItems(ctx context.Context, feed *gofeed.Feed) (*ImportResult, error) {
	result := &ImportResult{Feed: feed.Title}
	for _, item := range feed.Items {
		if result.Imported >= maxPerFeed {
			break
		}
		article := s.articleFromItem(item)
		if article == nil {
			result.Skipped++
			continue
		}
		if err := s.repo.UpsertBySourceURL(ctx, article); err != nil {
			return result, fmt.Errorf("保存文章失败: %w, title: %s", err, article.Title)
		}
		result.Imported++
	}
	s.logger.Infof("订阅源 %s 导入完成，共 %d 篇，跳过 %d 篇", feed.Title, result.Imported, result.Skipped)
	return result, nil
}

// articleFromItem 无链接或无标题的条目返回 nil；正文入库前清洗，摘要转纯文本
func (s *ArticleService) articleFromItem(item *gofeed.Item) *model.Article {
	link := strings.TrimSpace(item.Link)
	title := strings.TrimSpace(item.Title)
	if link == "" || title == "" {
		return nil
	}
	body := item.Content
	if body == "" {
		body = item.Description
	}
	published := time.Now()
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}
	return &model.Article{
		Slug:        sourceSlug(title, link),
		Title:       title,
		Summary:     plainText(item.Description),
		Body:        s.sanitizer.Sanitize(body),
		SourceURL:   &link,
		Published:   true,
		PublishedAt: &published,
	}
}

// plainText 去掉标签并还原实体
func plainText(fragment string) string {
	return strings.Join(strings.Fields(html.UnescapeString(stripTags.Sanitize(fragment))), " ")
}
