package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// スパン属性キー
const (
	AttrUserID   = "storefront.user.id"
	AttrPurpose  = "storefront.token.purpose"
	AttrReason   = "storefront.token.reject_reason"
	AttrTemplate = "storefront.email.template"
)

// StartSpan はグローバルトレーサーでスパンを開始します
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(InstrumentationName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan はエラーの有無に応じてステータスを設定しスパンを終了します
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
