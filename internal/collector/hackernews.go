package collector

import (
	"context"
	"fmt"
	"strings"
)

const (
	DefaultHNBaseURL = "https://hacker-news.firebaseio.com/v0"
	// 只在前 20 条热门故事里抽样
	hnMaxItems = 20

	hnThumbnail           = "https://news.ycombinator.com/y18.svg"
	hnFallbackDescription = "Read the full story on Hacker News."
	hnItemURLFormat       = "https://news.ycombinator.com/item?id=%d"
)

// HackerNews 通过官方 Firebase API 读取热门故事
type HackerNews struct {
	Client  *Client
	BaseURL string
}

func NewHackerNews(c *Client, baseURL string) *HackerNews {
	return &HackerNews{Client: c, BaseURL: strings.TrimRight(firstNonEmpty(baseURL, DefaultHNBaseURL), "/")}
}

func (h *HackerNews) Name() string {
	return "hackernews"
}

// HNItem 已删除的条目接口返回 null，解码后为零值，标题为空会在聚合校验时报错
type HNItem struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
	By    string `json:"by"`
	Time  int64  `json:"time"`
}

// TopStoriesURL 热门故事 id 列表地址，探活也用它
func (h *HackerNews) TopStoriesURL() string {
	return h.BaseURL + "/topstories.json"
}

// TopStoryIDs 返回最多 20 个热门故事 id
func (h *HackerNews) TopStoryIDs(ctx context.Context) ([]int, error) {
	var ids []int
	if err := h.Client.getJSON(ctx, h.TopStoriesURL(), &ids); err != nil {
		return nil, fmt.Errorf("hackernews: fetch top stories: %w", err)
	}
	if len(ids) > hnMaxItems {
		ids = ids[:hnMaxItems]
	}
	return ids, nil
}

// Story 拉取单条故事详情
func (h *HackerNews) Story(ctx context.Context, id int) (HNItem, error) {
	var it HNItem
	if err := h.Client.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", h.BaseURL, id), &it); err != nil {
		return HNItem{}, fmt.Errorf("hackernews: fetch item %d: %w", id, err)
	}
	return it, nil
}

// StoryToContent 把 HN 故事转换成文章
func StoryToContent(it HNItem) ContentItem {
	itemURL := it.URL
	if itemURL == "" {
		itemURL = fmt.Sprintf(hnItemURLFormat, it.ID)
	}

	desc := PlainText(it.Text)
	if desc == "" {
		desc = hnFallbackDescription
	}

	return ContentItem{
		Title:       it.Title,
		Description: desc,
		Type:        TypeArticle,
		URL:         itemURL,
		Thumbnail:   hnThumbnail,
		PublishedAt: formatUnix(it.Time),
		Author:      it.By,
	}
}
