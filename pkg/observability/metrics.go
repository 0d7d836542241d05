package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	metricBufferSize = 100
	flushInterval    = 10 * time.Second
	// CloudWatch caps PutMetricData at 1000 datums per call
	maxBatchSize = 1000
)

// Metrics publishes application metrics to CloudWatch. Datums are
// buffered and flushed in batches to keep PutMetricData calls down.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client

	mu     sync.Mutex
	buffer []types.MetricDatum
}

// NewMetrics creates a new CloudWatch metrics publisher
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	m := &Metrics{
		namespace: namespace,
		client:    client,
		buffer:    make([]types.MetricDatum, 0, metricBufferSize),
	}

	go m.flushLoop()

	return m
}

// Increment increments a counter metric
func (m *Metrics) Increment(metric, label string) {
	m.record(metric, label, 1, types.StandardUnitCount)
}

// RecordValue records a raw value for a metric
func (m *Metrics) RecordValue(metric, label string, value float64) {
	m.record(metric, label, value, types.StandardUnitNone)
}

// RecordDuration records a duration metric in milliseconds
func (m *Metrics) RecordDuration(metric, label string, d time.Duration) {
	m.record(metric, label, float64(d.Milliseconds()), types.StandardUnitMilliseconds)
}

// StartTimer starts a timer for a metric. Call Stop on the returned
// timer to record the elapsed duration.
func (m *Metrics) StartTimer(metric, label string) Timer {
	return &cloudWatchTimer{
		metrics: m,
		metric:  metric,
		label:   label,
		start:   time.Now(),
	}
}

// Timer records elapsed time when stopped
type Timer interface {
	Stop()
}

type cloudWatchTimer struct {
	metrics *Metrics
	metric  string
	label   string
	start   time.Time
}

func (t *cloudWatchTimer) Stop() {
	t.metrics.RecordDuration(t.metric, t.label, time.Since(t.start))
}

func (m *Metrics) record(metric, label string, value float64, unit types.StandardUnit) {
	datum := types.MetricDatum{
		MetricName: aws.String(metric),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
	}
	if label != "" {
		datum.Dimensions = []types.Dimension{
			{
				Name:  aws.String("Operation"),
				Value: aws.String(label),
			},
		}
	}

	m.mu.Lock()
	m.buffer = append(m.buffer, datum)
	full := len(m.buffer) >= metricBufferSize
	m.mu.Unlock()

	if full {
		m.Flush(context.Background())
	}
}

// Flush sends all buffered datums to CloudWatch
func (m *Metrics) Flush(ctx context.Context) {
	m.mu.Lock()
	if len(m.buffer) == 0 {
		m.mu.Unlock()
		return
	}
	pending := m.buffer
	m.buffer = make([]types.MetricDatum, 0, metricBufferSize)
	m.mu.Unlock()

	if m.client == nil {
		return
	}

	for start := 0; start < len(pending); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(pending) {
			end = len(pending)
		}

		// Failures are dropped on the floor; metrics are best effort
		_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: pending[start:end],
		})
	}
}

func (m *Metrics) flushLoop() {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.Flush(context.Background())
	}
}
