package collector

import "github.com/LJTian/InspireFeed/internal/config"

// Endpoint 上游名与其列表接口地址
type Endpoint struct {
	Name string
	URL  string
}

// Sources 四个上游共用一个 HTTP 客户端
type Sources struct {
	Client      *Client
	HackerNews  *HackerNews
	Reddit      *Reddit
	OpenLibrary *OpenLibrary
	Gutendex    *Gutendex
}

func NewSources(cfg *config.Config) *Sources {
	c := NewClient(cfg.UpstreamTimeout)
	return &Sources{
		Client:      c,
		HackerNews:  NewHackerNews(c, cfg.HNBaseURL),
		Reddit:      NewReddit(c, cfg.RedditBaseURL, cfg.RedditSubreddit, cfg.RedditLimit),
		OpenLibrary: NewOpenLibrary(c, cfg.OpenLibraryBaseURL, cfg.OpenLibrarySubject),
		Gutendex:    NewGutendex(c, cfg.GutendexBaseURL, cfg.GutendexTopic),
	}
}

// Endpoints 探活用的列表接口
func (s *Sources) Endpoints() []Endpoint {
	return []Endpoint{
		{Name: s.HackerNews.Name(), URL: s.HackerNews.TopStoriesURL()},
		{Name: s.Reddit.Name(), URL: s.Reddit.HotURL()},
		{Name: s.OpenLibrary.Name(), URL: s.OpenLibrary.SubjectURL()},
		{Name: s.Gutendex.Name(), URL: s.Gutendex.TopicURL()},
	}
}
