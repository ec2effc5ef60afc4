package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

const (
	DefaultGutendexBaseURL = "https://gutendex.com"
	DefaultGutendexTopic   = "philosophy"

	gutendexLimit         = 5
	gutenbergEbookFormat  = "https://www.gutenberg.org/ebooks/%d"
	publicDomainLabel     = "Public Domain"
	copyrightedLabel      = "Copyrighted"
	gutendexDescTemplate  = "A classic work by %s."
	gutendexDescAnonymous = "A classic work from Project Gutenberg."
)

// Gutendex 按话题读取 Project Gutenberg 的书目
type Gutendex struct {
	Client  *Client
	BaseURL string
	Topic   string
}

func NewGutendex(c *Client, baseURL, topic string) *Gutendex {
	return &Gutendex{
		Client:  c,
		BaseURL: strings.TrimRight(firstNonEmpty(baseURL, DefaultGutendexBaseURL), "/"),
		Topic:   firstNonEmpty(topic, DefaultGutendexTopic),
	}
}

func (g *Gutendex) Name() string {
	return "gutendex"
}

// gutCopyright 上游 copyright 可能是 bool、null 或字符串
type gutCopyright string

func (c *gutCopyright) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = gutCopyright(s)
		return nil
	}
	var flag bool
	if err := json.Unmarshal(b, &flag); err == nil && flag {
		*c = copyrightedLabel
	}
	return nil
}

type GutendexBook struct {
	ID        int               `json:"id"`
	Title     string            `json:"title"`
	Copyright gutCopyright      `json:"copyright"`
	Formats   map[string]string `json:"formats"`
	Authors   []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

func (g *Gutendex) TopicURL() string {
	q := url.Values{}
	q.Set("topic", g.Topic)
	return fmt.Sprintf("%s/books/?%s", g.BaseURL, q.Encode())
}

// TopicBooks 拉取话题下的书目，最多 5 本
func (g *Gutendex) TopicBooks(ctx context.Context) ([]GutendexBook, error) {
	var resp struct {
		Results []GutendexBook `json:"results"`
	}
	if err := g.Client.getJSON(ctx, g.TopicURL(), &resp); err != nil {
		return nil, fmt.Errorf("gutendex: fetch topic %s: %w", g.Topic, err)
	}
	books := resp.Results
	if len(books) > gutendexLimit {
		books = books[:gutendexLimit]
	}
	return books, nil
}

func BooksToContent(books []GutendexBook) []ContentItem {
	out := make([]ContentItem, 0, len(books))
	for _, b := range books {
		author := unknownAuthor
		desc := gutendexDescAnonymous
		if len(b.Authors) > 0 && b.Authors[0].Name != "" {
			author = b.Authors[0].Name
			desc = fmt.Sprintf(gutendexDescTemplate, author)
		}

		link := pickFormat(b.Formats, "text/html", "application/pdf")
		if link == "" {
			link = fmt.Sprintf(gutenbergEbookFormat, b.ID)
		}

		thumb := pickFormat(b.Formats, "image/")
		if thumb == "" {
			thumb = bookPlaceholderThumbnail
		}

		published := string(b.Copyright)
		if published == "" {
			published = publicDomainLabel
		}

		out = append(out, ContentItem{
			Title:       b.Title,
			Description: desc,
			Type:        TypeBook,
			URL:         link,
			Thumbnail:   thumb,
			PublishedAt: published,
			Author:      author,
		})
	}
	return out
}

// pickFormat 按优先级返回第一个 MIME 前缀匹配的链接。
// formats 的 key 可能带 charset，例如 "text/html; charset=utf-8"。
func pickFormat(formats map[string]string, prefixes ...string) string {
	if len(formats) == 0 {
		return ""
	}
	keys := make([]string, 0, len(formats))
	for k := range formats {
		keys = append(keys, k)
	}
	// map 无序，排序后结果才稳定
	sort.Strings(keys)

	for _, p := range prefixes {
		for _, k := range keys {
			if strings.HasPrefix(k, p) && formats[k] != "" {
				return formats[k]
			}
		}
	}
	return ""
}
