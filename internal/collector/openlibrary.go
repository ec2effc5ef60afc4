package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultOpenLibraryBaseURL = "https://openlibrary.org"
	DefaultOpenLibrarySubject = "motivation"

	openLibraryLimit          = 5
	openLibraryCoverFormat    = "https://covers.openlibrary.org/b/id/%d-M.jpg"
	openLibraryWorkBase       = "https://openlibrary.org"
	openLibraryFallbackDesc   = "No description available."
	bookPlaceholderThumbnail  = "https://via.placeholder.com/128x192?text=No+Cover"
	unknownAuthor             = "Unknown Author"
	unknownPublishedYearLabel = "Unknown"
)

// OpenLibrary 按主题读取 Open Library 的作品列表
type OpenLibrary struct {
	Client  *Client
	BaseURL string
	Subject string
}

func NewOpenLibrary(c *Client, baseURL, subject string) *OpenLibrary {
	return &OpenLibrary{
		Client:  c,
		BaseURL: strings.TrimRight(firstNonEmpty(baseURL, DefaultOpenLibraryBaseURL), "/"),
		Subject: firstNonEmpty(subject, DefaultOpenLibrarySubject),
	}
}

func (o *OpenLibrary) Name() string {
	return "openlibrary"
}

// olText 兼容 description 既可能是字符串也可能是 {"type": ..., "value": ...}
type olText string

func (t *olText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = olText(s)
		return nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		*t = olText(obj.Value)
	}
	// 其它形状一律当作缺失，走兜底文案
	return nil
}

type OpenLibraryWork struct {
	Key              string `json:"key"`
	Title            string `json:"title"`
	Description      olText `json:"description"`
	CoverID          int64  `json:"cover_id"`
	FirstPublishYear int    `json:"first_publish_year"`
	Authors          []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

func (o *OpenLibrary) SubjectURL() string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(openLibraryLimit))
	return fmt.Sprintf("%s/subjects/%s.json?%s", o.BaseURL, url.PathEscape(o.Subject), q.Encode())
}

// SubjectWorks 拉取主题下的作品，最多 5 本
func (o *OpenLibrary) SubjectWorks(ctx context.Context) ([]OpenLibraryWork, error) {
	var resp struct {
		Works []OpenLibraryWork `json:"works"`
	}
	if err := o.Client.getJSON(ctx, o.SubjectURL(), &resp); err != nil {
		return nil, fmt.Errorf("openlibrary: fetch subject %s: %w", o.Subject, err)
	}
	works := resp.Works
	if len(works) > openLibraryLimit {
		works = works[:openLibraryLimit]
	}
	return works, nil
}

func WorksToContent(works []OpenLibraryWork) []ContentItem {
	out := make([]ContentItem, 0, len(works))
	for _, w := range works {
		desc := PlainText(string(w.Description))
		if desc == "" {
			desc = openLibraryFallbackDesc
		}

		thumb := bookPlaceholderThumbnail
		if w.CoverID > 0 {
			thumb = fmt.Sprintf(openLibraryCoverFormat, w.CoverID)
		}

		published := unknownPublishedYearLabel
		if w.FirstPublishYear != 0 {
			published = strconv.Itoa(w.FirstPublishYear)
		}

		author := unknownAuthor
		if len(w.Authors) > 0 && w.Authors[0].Name != "" {
			author = w.Authors[0].Name
		}

		out = append(out, ContentItem{
			Title:       w.Title,
			Description: desc,
			Type:        TypeBook,
			URL:         openLibraryWorkBase + w.Key,
			Thumbnail:   thumb,
			PublishedAt: published,
			Author:      author,
		})
	}
	return out
}
