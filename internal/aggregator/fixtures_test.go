package aggregator

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LJTian/InspireFeed/internal/collector"
	"github.com/LJTian/InspireFeed/internal/processor"
)

// upstream 一个同时模拟四个上游的假服务
type upstream struct {
	storyIDs int
	// 命中该前缀的请求返回 500
	failPrefix string

	mu        sync.Mutex
	itemHits  []int
	listCalls map[string]int

	srv    *httptest.Server
	client *collector.Client
}

func newUpstream(t *testing.T, storyIDs int, failPrefix string) *upstream {
	t.Helper()
	u := &upstream{storyIDs: storyIDs, failPrefix: failPrefix, listCalls: map[string]int{}}
	u.srv = httptest.NewServer(http.HandlerFunc(u.serve))
	u.client = collector.NewClient(2 * time.Second)
	t.Cleanup(func() {
		u.srv.Close()
		u.client.HTTP.CloseIdleConnections()
	})
	return u
}

func (u *upstream) aggregator(heads bool) *Aggregator {
	return New(
		collector.NewHackerNews(u.client, u.srv.URL+"/v0"),
		collector.NewReddit(u.client, u.srv.URL, "GetMotivated", 10),
		collector.NewOpenLibrary(u.client, u.srv.URL, "motivation"),
		collector.NewGutendex(u.client, u.srv.URL, "philosophy"),
		WithIntN(forceCoin(heads)),
	)
}

// forceCoin 第一次调用（抛硬币）返回固定值，之后使用真实随机源
func forceCoin(heads bool) processor.IntN {
	first := true
	return func(n int) int {
		if first {
			first = false
			if heads {
				return 0
			}
			return 1
		}
		return rand.IntN(n)
	}
}

func (u *upstream) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if u.failPrefix != "" && strings.HasPrefix(path, u.failPrefix) {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	u.mu.Lock()
	u.listCalls[path]++
	u.mu.Unlock()

	var body any
	switch {
	case path == "/v0/topstories.json":
		ids := make([]int, 0, u.storyIDs)
		for i := 1; i <= u.storyIDs; i++ {
			ids = append(ids, i)
		}
		body = ids

	case strings.HasPrefix(path, "/v0/item/"):
		id, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(path, "/v0/item/"), ".json"))
		u.mu.Lock()
		u.itemHits = append(u.itemHits, id)
		u.mu.Unlock()
		item := map[string]any{
			"id":    id,
			"title": fmt.Sprintf("Story %d", id),
			"by":    "pg",
			"time":  1700000000 + id,
			"type":  "story",
		}
		// 奇数 id 带外链，偶数 id 走 HN 站内链接
		if id%2 == 1 {
			item["url"] = fmt.Sprintf("https://example.com/story/%d", id)
		} else {
			item["text"] = "<p>Ask HN body</p>"
		}
		body = item

	case path == "/r/GetMotivated/hot.json":
		body = map[string]any{"data": map[string]any{"children": []any{
			post("Keep going", "/r/GetMotivated/comments/a1/keep_going/", "https://b.thumbs.redditmedia.com/a1.jpg", false),
			post("NSFW motivation", "/r/GetMotivated/comments/a2/nsfw/", "nsfw", true),
			post("Small steps", "/r/GetMotivated/comments/a3/small_steps/", "self", false),
			post("You got this", "/r/GetMotivated/comments/a4/you_got_this/", "default", false),
		}}}

	case path == "/subjects/motivation.json":
		works := make([]any, 0, 5)
		for i := 1; i <= 5; i++ {
			w := map[string]any{
				"key":     fmt.Sprintf("/works/OL%dW", i),
				"title":   fmt.Sprintf("OL Work %d", i),
				"authors": []any{map[string]any{"name": fmt.Sprintf("OL Author %d", i)}},
			}
			if i%2 == 0 {
				w["cover_id"] = 1000 + i
				w["first_publish_year"] = 1990 + i
			}
			works = append(works, w)
		}
		body = map[string]any{"works": works}

	case path == "/books/":
		results := make([]any, 0, 6)
		for i := 1; i <= 6; i++ {
			results = append(results, map[string]any{
				"id":        100 + i,
				"title":     fmt.Sprintf("Gutenberg Book %d", i),
				"copyright": false,
				"authors":   []any{map[string]any{"name": "Aurelius, Marcus"}},
				"formats": map[string]any{
					"text/html":       fmt.Sprintf("https://www.gutenberg.org/ebooks/%d.html.images", 100+i),
					"application/pdf": fmt.Sprintf("https://www.gutenberg.org/ebooks/%d.pdf", 100+i),
					"image/jpeg":      fmt.Sprintf("https://www.gutenberg.org/cache/epub/%d/cover.jpg", 100+i),
				},
			})
		}
		body = map[string]any{"results": results}

	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func post(title, permalink, thumb string, nsfw bool) map[string]any {
	return map[string]any{"data": map[string]any{
		"title":       title,
		"permalink":   permalink,
		"thumbnail":   thumb,
		"author":      "someone",
		"created_utc": 1700000000.0,
		"over_18":     nsfw,
	}}
}

func (u *upstream) items() []int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]int(nil), u.itemHits...)
}

func (u *upstream) calls(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.listCalls[path]
}
