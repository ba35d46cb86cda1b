package xwlru

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// 指标名称常量
const (
	// metricNameRequests 读请求计数器（result=hit|miss）
	metricNameRequests = "xwlru.requests"
	// metricNameInserts 写入计数器（op=insert|update）
	metricNameInserts = "xwlru.inserts"
	// metricNameRemovals 移除计数器（reason=evicted|deleted）
	metricNameRemovals = "xwlru.removals"
	// metricNameRejections 因超重被拒绝的写入计数器
	metricNameRejections = "xwlru.rejections"
	// metricNameCallbackFailures 回调失败计数器（hook=insert|remove）
	metricNameCallbackFailures = "xwlru.callback.failures"
	// metricNameWeight 当前总权重
	metricNameWeight = "xwlru.weight"
)

// 属性取值
const (
	resultHit  = "hit"
	resultMiss = "miss"

	opInsert = "insert"
	opUpdate = "update"

	reasonEvicted = "evicted"
	reasonDeleted = "deleted"

	hookInsert = "insert"
	hookRemove = "remove"
)

// Metrics 缓存指标收集器。
// nil *Metrics 的所有方法都是空操作。
type Metrics struct {
	requests         metric.Int64Counter
	inserts          metric.Int64Counter
	removals         metric.Int64Counter
	rejections       metric.Int64Counter
	callbackFailures metric.Int64Counter
	weight           metric.Int64UpDownCounter
}

// NewMetrics 创建指标收集器。
// 如果 meterProvider 为 nil，返回 nil（不收集指标）。
func NewMetrics(meterProvider metric.MeterProvider) (*Metrics, error) {
	if meterProvider == nil {
		return nil, nil
	}

	meter := meterProvider.Meter("xwlru",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	requests, err := meter.Int64Counter(
		metricNameRequests,
		metric.WithDescription("缓存读请求数"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	inserts, err := meter.Int64Counter(
		metricNameInserts,
		metric.WithDescription("成功写入的条目数"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	removals, err := meter.Int64Counter(
		metricNameRemovals,
		metric.WithDescription("被淘汰或删除的条目数"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	rejections, err := meter.Int64Counter(
		metricNameRejections,
		metric.WithDescription("因超出硬上限被拒绝的写入数"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	callbackFailures, err := meter.Int64Counter(
		metricNameCallbackFailures,
		metric.WithDescription("回调失败次数"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	weight, err := meter.Int64UpDownCounter(
		metricNameWeight,
		metric.WithDescription("当前缓存总权重"),
		metric.WithUnit("{weight}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requests:         requests,
		inserts:          inserts,
		removals:         removals,
		rejections:       rejections,
		callbackFailures: callbackFailures,
		weight:           weight,
	}, nil
}

// RecordRequest 记录一次读请求。
func (m *Metrics) RecordRequest(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := resultMiss
	if hit {
		result = resultHit
	}
	m.requests.Add(context.WithoutCancel(ctx), 1,
		metric.WithAttributes(attribute.String("result", result)))
}

// RecordInsert 记录一次成功写入，delta 为总权重变化量。
func (m *Metrics) RecordInsert(ctx context.Context, update bool, delta int64) {
	if m == nil {
		return
	}
	op := opInsert
	if update {
		op = opUpdate
	}
	metricsCtx := context.WithoutCancel(ctx)
	m.inserts.Add(metricsCtx, 1, metric.WithAttributes(attribute.String("op", op)))
	if delta != 0 {
		m.weight.Add(metricsCtx, delta)
	}
}

// RecordRemoval 记录一次条目移除。
func (m *Metrics) RecordRemoval(ctx context.Context, evicted bool, weight uint64) {
	if m == nil {
		return
	}
	reason := reasonDeleted
	if evicted {
		reason = reasonEvicted
	}
	metricsCtx := context.WithoutCancel(ctx)
	m.removals.Add(metricsCtx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	m.weight.Add(metricsCtx, -clampInt64(weight))
}

// RecordClear 记录一次 Clear，weight 为清空前的总权重。
func (m *Metrics) RecordClear(ctx context.Context, weight uint64) {
	if m == nil || weight == 0 {
		return
	}
	m.weight.Add(context.WithoutCancel(ctx), -clampInt64(weight))
}

// RecordRejection 记录一次被拒绝的写入。
func (m *Metrics) RecordRejection(ctx context.Context) {
	if m == nil {
		return
	}
	m.rejections.Add(context.WithoutCancel(ctx), 1)
}

// RecordCallbackFailure 记录一次回调失败。
func (m *Metrics) RecordCallbackFailure(ctx context.Context, hook string) {
	if m == nil {
		return
	}
	m.callbackFailures.Add(context.WithoutCancel(ctx), 1,
		metric.WithAttributes(attribute.String("hook", hook)))
}

// clampInt64 把权重收窄到 int64，超出部分截断为 MaxInt64。
func clampInt64(v uint64) int64 {
	const maxInt64 = 1<<63 - 1
	if v > maxInt64 {
		return maxInt64
	}
	return int64(v)
}
