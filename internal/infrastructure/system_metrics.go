package infrastructure

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// SystemStats is a point-in-time snapshot of runtime health
type SystemStats struct {
	Timestamp      time.Time `json:"timestamp"`
	UptimeSeconds  float64   `json:"uptime_seconds"`
	Goroutines     int       `json:"goroutines"`
	HeapAllocBytes uint64    `json:"heap_alloc_bytes"`
	HeapSysBytes   uint64    `json:"heap_sys_bytes"`
	NumGC          uint32    `json:"num_gc"`
	GCPauseMs      float64   `json:"gc_pause_ms"`
}

// SystemMetricsCollector periodically samples runtime stats and exports
// them through the OpenTelemetry meter.
type SystemMetricsCollector struct {
	meter     metric.Meter
	interval  time.Duration
	startTime time.Time

	goroutines metric.Int64Gauge
	heapAlloc  metric.Int64Gauge
	gcPause    metric.Float64Histogram

	mu      sync.Mutex
	current SystemStats
	stop    chan struct{}
	done    chan struct{}
}

// NewSystemMetricsCollector creates a collector sampling at the given interval
func NewSystemMetricsCollector(meter metric.Meter, interval time.Duration) (*SystemMetricsCollector, error) {
	goroutines, err := meter.Int64Gauge(
		"runtime_goroutines",
		metric.WithDescription("Number of live goroutines"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"runtime_heap_alloc_bytes",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcPause, err := meter.Float64Histogram(
		"runtime_gc_pause_ms",
		metric.WithDescription("Most recent GC pause duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &SystemMetricsCollector{
		meter:      meter,
		interval:   interval,
		startTime:  time.Now(),
		goroutines: goroutines,
		heapAlloc:  heapAlloc,
		gcPause:    gcPause,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}, nil
}

// Start begins periodic collection until Stop is called or ctx is cancelled
func (c *SystemMetricsCollector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.collect(ctx)

		for {
			select {
			case <-ticker.C:
				c.collect(ctx)
			case <-c.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts collection and waits for the collector goroutine to exit
func (c *SystemMetricsCollector) Stop() {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	<-c.done
}

// Current returns the most recent snapshot
func (c *SystemMetricsCollector) Current() SystemStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *SystemMetricsCollector) collect(ctx context.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := SystemStats{
		Timestamp:      time.Now(),
		UptimeSeconds:  time.Since(c.startTime).Seconds(),
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: mem.HeapAlloc,
		HeapSysBytes:   mem.HeapSys,
		NumGC:          mem.NumGC,
	}
	if mem.NumGC > 0 {
		stats.GCPauseMs = float64(mem.PauseNs[(mem.NumGC+255)%256]) / 1e6
	}

	c.goroutines.Record(ctx, int64(stats.Goroutines))
	c.heapAlloc.Record(ctx, int64(stats.HeapAllocBytes))
	if stats.GCPauseMs > 0 {
		c.gcPause.Record(ctx, stats.GCPauseMs)
	}

	c.mu.Lock()
	prevGC := c.current.NumGC
	c.current = stats
	c.mu.Unlock()

	if stats.NumGC > prevGC {
		slog.Default().Debug("Runtime stats collected",
			slog.Int("goroutines", stats.Goroutines),
			slog.Uint64("heap_alloc", stats.HeapAllocBytes),
			slog.Float64("gc_pause_ms", stats.GCPauseMs))
	}
}
