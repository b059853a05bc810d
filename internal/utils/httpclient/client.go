package httpclient

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "PhoneCompare/1.0 (+feed-import; price-alerts)"
)

// Options 出站请求参数；订阅源抓取与发信 API 共用
type Options struct {
	Timeout   int    // 秒，<=0 取 defaultTimeout
	Proxy     string // 可空
	UserAgent string // 空则用 defaultUserAgent，部分 RSS 站点会拒绝 Go 默认 UA
}

// NewHTTPClient 出站客户端：可选代理，统一 UA，自己处理 gzip
func NewHTTPClient(opts Options, logger *logrus.Logger) *http.Client {
	base := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  true,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if opts.Proxy != "" {
		if proxyURL, err := url.Parse(opts.Proxy); err != nil {
			logger.WithError(err).WithField("proxy", opts.Proxy).Warn("proxy 无效，直连")
		} else {
			base.Proxy = http.ProxyURL(proxyURL)
			logger.WithField("proxy", opts.Proxy).Info("出站请求走代理")
		}
	}

	timeout := defaultTimeout
	if opts.Timeout > 0 {
		timeout = time.Duration(opts.Timeout) * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &gzipTransport{next: base, userAgent: ua, logger: logger},
	}
}

type gzipTransport struct {
	next      http.RoundTripper
	userAgent string
	logger    *logrus.Logger
}

func (t *gzipTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTripper 不能改调用方的 req
	req = req.Clone(req.Context())
	req.Header.Set("Accept-Encoding", "gzip")
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.Header.Get("Content-Encoding") != "gzip" {
		return resp, err
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.logger.WithError(err).WithField("url", req.URL.String()).Warn("响应声明 gzip 但无法解压，原样返回")
		return resp, nil
	}
	resp.Body = &gzipBody{zr: zr, raw: resp.Body}
	resp.Header.Del("Content-Encoding")
	resp.ContentLength = -1
	return resp, nil
}

type gzipBody struct {
	zr  *gzip.Reader
	raw io.ReadCloser
}

func (b *gzipBody) Read(p []byte) (int, error) { return b.zr.Read(p) }

func (b *gzipBody) Close() error {
	zerr := b.zr.Close()
	if err := b.raw.Close(); err != nil {
		return err
	}
	return zerr
}
