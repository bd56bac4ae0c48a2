package metrics

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Build information, set with -ldflags at release time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Sampler refreshes a group of gauges from a point-in-time reading.
type Sampler interface {
	Sample()
}

type RuntimeSampler struct {
	metrics   *Metrics
	startTime time.Time
}

func NewRuntimeSampler(metrics *Metrics) *RuntimeSampler {
	return &RuntimeSampler{metrics: metrics, startTime: time.Now()}
}

func (s *RuntimeSampler) Sample() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	s.metrics.UpdateSystemMetrics(time.Since(s.startTime), &memStats)
}

// Collector drives its samplers on a fixed interval between Start and Stop.
type Collector struct {
	logger   *zap.Logger
	samplers []Sampler

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewCollector(logger *zap.Logger, samplers ...Sampler) *Collector {
	return &Collector{logger: logger, samplers: samplers}
}

func (c *Collector) Start(interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.loop(ctx, interval, c.done)

	c.logger.Info("Metrics collector started",
		zap.Duration("interval", interval), zap.Int("samplers", len(c.samplers)))
}

// Stop halts sampling and waits for an in-progress round to finish.
func (c *Collector) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
	c.logger.Info("Metrics collector stopped")
}

func (c *Collector) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		c.sampleAll()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (c *Collector) sampleAll() {
	for _, s := range c.samplers {
		s.Sample()
	}
}
