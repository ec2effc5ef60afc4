package collector

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultRedditBaseURL   = "https://www.reddit.com"
	DefaultRedditSubreddit = "GetMotivated"
	DefaultRedditLimit     = 10

	redditPermalinkBase       = "https://www.reddit.com"
	redditFallbackThumbnail   = "https://www.redditstatic.com/desktop2x/img/favicon/android-icon-192x192.png"
	redditFallbackDescription = "A motivating post from the Reddit community."
	// 过滤 NSFW 之后最多保留的文章数
	redditMaxArticles = 5
)

// Reddit 读取固定子版块的热门帖子
type Reddit struct {
	Client    *Client
	BaseURL   string
	Subreddit string
	Limit     int
}

func NewReddit(c *Client, baseURL, subreddit string, limit int) *Reddit {
	if limit <= 0 {
		limit = DefaultRedditLimit
	}
	return &Reddit{
		Client:    c,
		BaseURL:   strings.TrimRight(firstNonEmpty(baseURL, DefaultRedditBaseURL), "/"),
		Subreddit: firstNonEmpty(subreddit, DefaultRedditSubreddit),
		Limit:     limit,
	}
}

func (r *Reddit) Name() string {
	return "reddit"
}

type RedditPost struct {
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Permalink  string  `json:"permalink"`
	Thumbnail  string  `json:"thumbnail"`
	Author     string  `json:"author"`
	CreatedUTC float64 `json:"created_utc"`
	Over18     bool    `json:"over_18"`
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data RedditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (r *Reddit) HotURL() string {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(r.Limit))
	return fmt.Sprintf("%s/r/%s/hot.json?%s", r.BaseURL, url.PathEscape(r.Subreddit), q.Encode())
}

// HotPosts 拉取热门帖子列表，不做过滤
func (r *Reddit) HotPosts(ctx context.Context) ([]RedditPost, error) {
	var listing redditListing
	if err := r.Client.getJSON(ctx, r.HotURL(), &listing); err != nil {
		return nil, fmt.Errorf("reddit: fetch hot posts: %w", err)
	}
	posts := make([]RedditPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// PostsToContent 过滤 NSFW 帖子后转换成文章，最多 5 条
func PostsToContent(posts []RedditPost) []ContentItem {
	out := make([]ContentItem, 0, redditMaxArticles)
	for _, p := range posts {
		if p.Over18 {
			continue
		}
		if len(out) == redditMaxArticles {
			break
		}

		// thumbnail 可能是 "self" / "default" / "nsfw" 之类的占位词
		thumb := p.Thumbnail
		if !strings.HasPrefix(thumb, "http://") && !strings.HasPrefix(thumb, "https://") {
			thumb = redditFallbackThumbnail
		}

		desc := PlainText(p.Selftext)
		if desc == "" {
			desc = redditFallbackDescription
		}

		out = append(out, ContentItem{
			Title:       p.Title,
			Description: desc,
			Type:        TypeArticle,
			URL:         redditPermalinkBase + p.Permalink,
			Thumbnail:   thumb,
			PublishedAt: formatUnix(int64(p.CreatedUTC)),
			Author:      p.Author,
		})
	}
	return out
}
