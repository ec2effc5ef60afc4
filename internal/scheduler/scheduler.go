package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/LJTian/InspireFeed/internal/collector"
	"github.com/LJTian/InspireFeed/internal/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const probeTimeout = 15 * time.Second

// Pinger 探活只关心上游是否返回 2xx
type Pinger interface {
	Ping(ctx context.Context, url string) error
}

// ProbeResult 某个上游最近一次探活的结果
type ProbeResult struct {
	Source    string    `json:"source"`
	Up        bool      `json:"up"`
	LatencyMS int64     `json:"latencyMs"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Scheduler 定时探测各上游的可用性，结果只用于运维观察，聚合接口不会读取
type Scheduler struct {
	cron    *cron.Cron
	pinger  Pinger
	targets []collector.Endpoint
	logger  *zap.Logger

	mu      sync.RWMutex
	results map[string]ProbeResult

	// 启动时那一轮探活不归 cron 管，单独等待
	wg sync.WaitGroup
}

// New spec 为空时不注册定时任务，仍然可以手动 RunOnce
func New(spec string, pinger Pinger, targets []collector.Endpoint, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:    cron.New(),
		pinger:  pinger,
		targets: targets,
		logger:  logger,
		results: make(map[string]ProbeResult, len(targets)),
	}

	if spec != "" {
		if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 启动后立即探一次，/health/upstreams 不会长时间为空
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runOnce()
	}()
}

// Stop 停止调度并等待正在执行的任务结束，包括启动时的那一轮
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发探活
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	s.logger.Debug("start upstream probe", zap.Int("targets", len(s.targets)))

	var wg sync.WaitGroup
	for _, t := range s.targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.record(s.probe(t))
		}()
	}
	wg.Wait()

	s.logger.Debug("upstream probe done")
}

func (s *Scheduler) probe(t collector.Endpoint) ProbeResult {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	start := time.Now()
	err := s.pinger.Ping(ctx, t.URL)
	latency := time.Since(start)
	res := ProbeResult{
		Source:    t.Name,
		Up:        err == nil,
		LatencyMS: latency.Milliseconds(),
		CheckedAt: start,
	}
	if err != nil {
		res.Error = err.Error()
		s.logger.Warn("upstream probe failed", zap.String("source", t.Name), zap.String("url", t.URL), zap.Error(err))
	} else {
		s.logger.Info("upstream probe ok", zap.String("source", t.Name), zap.Duration("latency", latency))
	}
	return res
}

func (s *Scheduler) record(res ProbeResult) {
	metrics.SetUpstreamUp(res.Source, res.Up)

	s.mu.Lock()
	s.results[res.Source] = res
	s.mu.Unlock()
}

// Results 最近一次探活结果，按上游名排序
func (s *Scheduler) Results() []ProbeResult {
	s.mu.RLock()
	out := make([]ProbeResult, 0, len(s.results))
	for _, r := range s.results {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}
