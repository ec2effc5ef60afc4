package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ContentType 聚合内容的类别
type ContentType string

const (
	TypeVideo   ContentType = "video"
	TypeArticle ContentType = "article"
	TypeBook    ContentType = "book"
)

// ContentItem 统一输出给前端的内容结构，各上游都要转换成它
type ContentItem struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        ContentType `json:"type"`
	URL         string      `json:"url"`
	Thumbnail   string      `json:"thumbnail"`
	// ISO-8601 时间，上游没有时间时用 "Unknown" / "Public Domain" 之类的文案
	PublishedAt string `json:"publishedAt"`
	Author      string `json:"author,omitempty"`
}

const (
	defaultClientTimeout = 10 * time.Second
	maxResponseBytes     = 2 << 20 // 2MB
	userAgent            = "InspireFeedBot/1.0"
)

// ErrUnexpectedStatus 上游返回非 2xx
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client 所有上游共用的 HTTP 客户端
type Client struct {
	HTTP *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{HTTP: &http.Client{Timeout: timeout}}
}

// getJSON 发起 GET 请求并把响应体解码到 v
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 读掉剩余内容，便于连接复用
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Ping 只检查上游是否可达且返回 2xx，供探活使用
func (c *Client) Ping(ctx context.Context, url string) error {
	var discard json.RawMessage
	return c.getJSON(ctx, url, &discard)
}

func formatUnix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
