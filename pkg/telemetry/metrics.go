package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics はアクショントークンとメール配送のカウンターです
// nilのMetricsに対する呼び出しは何もしません
type Metrics struct {
	tokensIssued   metric.Int64Counter
	tokensRejected metric.Int64Counter
	emailsSent     metric.Int64Counter
}

// NewMetrics はメーターからカウンターを作成します
// meterがnilの場合はグローバルメーターを使用します
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	issued, err := meter.Int64Counter("storefront_tokens_issued",
		metric.WithDescription("Number of action tokens issued"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	rejected, err := meter.Int64Counter("storefront_tokens_rejected",
		metric.WithDescription("Number of action tokens rejected during verification"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	sent, err := meter.Int64Counter("storefront_emails_sent",
		metric.WithDescription("Number of account emails handed to the delivery adapter"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	return &Metrics{tokensIssued: issued, tokensRejected: rejected, emailsSent: sent}, nil
}

// TokenIssued はトークン発行を記録します
func (m *Metrics) TokenIssued(ctx context.Context, purpose string) {
	if m == nil {
		return
	}
	m.tokensIssued.Add(ctx, 1, metric.WithAttributes(attribute.String("purpose", purpose)))
}

// TokenRejected はトークン拒否を理由付きで記録します
func (m *Metrics) TokenRejected(ctx context.Context, purpose, reason string) {
	if m == nil {
		return
	}
	m.tokensRejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("purpose", purpose),
		attribute.String("reason", reason),
	))
}

// EmailSent はメール配送結果を記録します
func (m *Metrics) EmailSent(ctx context.Context, template string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.emailsSent.Add(ctx, 1, metric.WithAttributes(
		attribute.String("template", template),
		attribute.String("status", status),
	))
}
