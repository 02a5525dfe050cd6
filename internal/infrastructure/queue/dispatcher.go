package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetlog/duty-status/internal/api/metrics"
	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// metricSources bounds the source label of the processed-reports metric.
var metricSources = map[string]bool{"api": true, "amqp": true, "eld": true}

// ErrStopped is returned by Enqueue once the dispatcher is shutting down.
var ErrStopped = errors.New("dispatcher stopped")

// Dispatcher routes status reports to a fixed set of workers using consistent
// hashing on the operator, guaranteeing per-operator report ordering.
type Dispatcher struct {
	workers   []chan ports.StatusReport
	processor ports.ReportProcessor
	log       zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	done    chan struct{} // closed when ctx is cancelled; unblocks senders
	drain   chan struct{} // closed once no sender can still be in flight
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor ports.ReportProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan ports.StatusReport, numWorkers),
		processor: processor,
		log:       log,
		done:      make(chan struct{}),
		drain:     make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.StatusReport, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Once ctx is cancelled Enqueue fails
// with ErrStopped and the workers finish the reports already buffered.
func (d *Dispatcher) Start(ctx context.Context) {
	pctx := context.WithoutCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(pctx, i, ch)
	}
	go d.stopOnDone(ctx)
}

// Wait blocks until every worker has drained its buffer after shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) stopOnDone(ctx context.Context) {
	<-ctx.Done()
	close(d.done)
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	close(d.drain)
}

// Enqueue sends a report to the worker responsible for its operator.
// The call blocks while that worker's buffer is full, until shutdown.
func (d *Dispatcher) Enqueue(report ports.StatusReport) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	idx := d.shardIndex(report.ShardKey())
	select {
	case d.workers[idx] <- report:
	case <-d.done:
		return ErrStopped
	}
	metrics.ReportsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	return nil
}

// EnqueueBatch enqueues multiple reports preserving per-operator ordering.
// It stops at the first report that cannot be queued.
func (d *Dispatcher) EnqueueBatch(reports []ports.StatusReport) error {
	for i, r := range reports {
		if err := d.Enqueue(r); err != nil {
			return fmt.Errorf("enqueue report %d of %d: %w", i+1, len(reports), err)
		}
	}
	return nil
}

// shardIndex maps a shard key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.StatusReport) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-d.drain:
			d.drainBuffer(ctx, id, ch)
			return
		case report := <-ch:
			metrics.ReportsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, report)
		}
	}
}

func (d *Dispatcher) drainBuffer(ctx context.Context, id int, ch <-chan ports.StatusReport) {
	n := 0
	for {
		select {
		case report := <-ch:
			d.process(ctx, id, report)
			n++
		default:
			if n > 0 {
				d.log.Info().Int("worker_id", id).Int("reports", n).Msg("drained buffered reports")
			}
			metrics.ReportsQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, workerID int, report ports.StatusReport) {
	start := time.Now()
	err := d.processor.Process(ctx, report)
	if err != nil {
		metrics.ReportProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		metrics.ReportsErrorsTotal.WithLabelValues(ErrorReason(err)).Inc()
		d.log.Error().Err(err).
			Str("shard_key", report.ShardKey()).
			Str("source", report.Source).
			Int("worker_id", workerID).
			Msg("report processing failed")
		return
	}
	metrics.ReportProcessingDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	metrics.ReportsProcessedTotal.WithLabelValues(statusLabel(report.Status), sourceLabel(report.Source)).Inc()
}

// ErrorReason classifies a processing error for the errors metric.
func ErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, domain.ErrOperatorNotFound):
		return "operator_not_found"
	case errors.Is(err, domain.ErrStorage):
		return "storage"
	default:
		return "internal"
	}
}

func statusLabel(raw string) string {
	s := domain.ParseDutyStatus(raw).Coerce()
	if code := s.ShortCode(); code != "" {
		return code
	}
	return s.String()
}

func sourceLabel(source string) string {
	if metricSources[source] {
		return source
	}
	return "other"
}
