package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LJTian/InspireFeed/internal/collector"
	"github.com/LJTian/InspireFeed/internal/metrics"
	"github.com/LJTian/InspireFeed/internal/processor"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 每次响应从 HN 抽取的故事数
const storiesPerResponse = 5

const (
	SourceNews   = "hackernews"
	SourceSocial = "reddit"
)

var errMissingTitle = errors.New("missing title")

type NewsSource interface {
	TopStoryIDs(ctx context.Context) ([]int, error)
	Story(ctx context.Context, id int) (collector.HNItem, error)
}

type SocialSource interface {
	HotPosts(ctx context.Context) ([]collector.RedditPost, error)
}

type SubjectCatalog interface {
	SubjectWorks(ctx context.Context) ([]collector.OpenLibraryWork, error)
}

type TopicCatalog interface {
	TopicBooks(ctx context.Context) ([]collector.GutendexBook, error)
}

// Response 一次聚合的结果，每次请求重新计算，不做缓存
type Response struct {
	Videos   []collector.ContentItem `json:"videos"`
	Articles []collector.ContentItem `json:"articles"`
	Books    []collector.ContentItem `json:"books"`

	// 本次文章来自哪个上游，只用于日志和响应头
	ArticleSource string `json:"-"`
}

type Aggregator struct {
	news    NewsSource
	social  SocialSource
	subject SubjectCatalog
	topic   TopicCatalog

	intN   processor.IntN
	logger *zap.Logger
}

type Option func(*Aggregator)

// WithIntN 替换随机源，测试里用来固定抛硬币的结果
func WithIntN(intN processor.IntN) Option {
	return func(a *Aggregator) { a.intN = intN }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

func New(news NewsSource, social SocialSource, subject SubjectCatalog, topic TopicCatalog, opts ...Option) *Aggregator {
	a := &Aggregator{
		news:    news,
		social:  social,
		subject: subject,
		topic:   topic,
		intN:    processor.DefaultIntN,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate 并发拉取四个上游，转换、合并、打乱后返回。
// 任何一步失败都返回错误，不返回部分结果。
func (a *Aggregator) Aggregate(ctx context.Context) (*Response, error) {
	useNews := processor.CoinFlip(a.intN)
	articleSource := SourceSocial
	if useNews {
		articleSource = SourceNews
	}

	resp, err := a.aggregate(ctx, useNews)
	metrics.RecordAggregation(articleSource, err)
	if err != nil {
		return nil, err
	}
	resp.ArticleSource = articleSource
	return resp, nil
}

func (a *Aggregator) aggregate(ctx context.Context, useNews bool) (*Response, error) {
	var (
		ids   []int
		posts []collector.RedditPost
		works []collector.OpenLibraryWork
		gbs   []collector.GutendexBook
	)

	// 第一阶段：四个列表请求并发，任一失败即整体失败
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer observe("hackernews", time.Now(), &err)
		ids, err = a.news.TopStoryIDs(gctx)
		return err
	})
	g.Go(func() (err error) {
		defer observe("reddit", time.Now(), &err)
		posts, err = a.social.HotPosts(gctx)
		return err
	})
	g.Go(func() (err error) {
		defer observe("openlibrary", time.Now(), &err)
		works, err = a.subject.SubjectWorks(gctx)
		return err
	})
	g.Go(func() (err error) {
		defer observe("gutendex", time.Now(), &err)
		gbs, err = a.topic.TopicBooks(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate: fetch listings: %w", err)
	}

	// 第二阶段：随机挑 5 个故事并发拉详情
	picked := processor.Sample(ids, storiesPerResponse, a.intN)
	stories := make([]collector.HNItem, len(picked))
	sg, sctx := errgroup.WithContext(ctx)
	for i, id := range picked {
		sg.Go(func() (err error) {
			defer observe("hackernews_item", time.Now(), &err)
			stories[i], err = a.news.Story(sctx, id)
			return err
		})
	}
	if err := sg.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate: fetch stories: %w", err)
	}

	a.logger.Debug("upstream listings fetched",
		zap.Int("story_ids", len(ids)),
		zap.Int("stories", len(stories)),
		zap.Int("posts", len(posts)),
		zap.Int("openlibrary_works", len(works)),
		zap.Int("gutendex_books", len(gbs)),
	)

	var articles []collector.ContentItem
	if useNews {
		articles = make([]collector.ContentItem, 0, len(stories))
		for _, st := range stories {
			articles = append(articles, collector.StoryToContent(st))
		}
	} else {
		articles = collector.PostsToContent(posts)
	}

	books := append(collector.WorksToContent(works), collector.BooksToContent(gbs)...)
	videos := collector.Videos()

	for name, items := range map[string][]collector.ContentItem{"articles": articles, "books": books} {
		if err := validate(items); err != nil {
			return nil, fmt.Errorf("aggregate: transform %s: %w", name, err)
		}
	}

	processor.Shuffle(books, a.intN)
	processor.Shuffle(videos, a.intN)
	processor.Shuffle(articles, a.intN)

	return &Response{
		Videos:   videos,
		Articles: articles,
		Books:    books,
	}, nil
}

// validate title 是唯一必填字段，其余字段缺失时已在转换中兜底
func validate(items []collector.ContentItem) error {
	for i, it := range items {
		if it.Title == "" {
			return fmt.Errorf("item %d (%s): %w", i, it.URL, errMissingTitle)
		}
	}
	return nil
}

func observe(source string, start time.Time, errp *error) {
	metrics.RecordUpstream(source, start, *errp)
}
