package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const (
	ctxKeyLogger ctxKey = iota
	ctxKeyRequestID
	ctxKeyTenantID
	ctxKeyUserID
)

// WithContext attaches log to ctx so lower layers can retrieve it
// without threading a logger parameter through every call.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, log)
}

// FromContext returns the logger attached to ctx, or a no-op logger
// when none has been attached.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(ctxKeyLogger).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequestID tags ctx and log with the request ID.
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return tag(ctx, log, ctxKeyRequestID, "request_id", requestID)
}

// WithTenantID tags ctx and log with the acting tenant.
func WithTenantID(ctx context.Context, log *zap.Logger, tenantID string) (context.Context, *zap.Logger) {
	return tag(ctx, log, ctxKeyTenantID, "tenant_id", tenantID)
}

// WithUserID tags ctx and log with the acting user.
func WithUserID(ctx context.Context, log *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return tag(ctx, log, ctxKeyUserID, "user_id", userID)
}

// tag stores the value under key, adds it as a log field, and attaches
// the enriched logger back onto the context.
func tag(ctx context.Context, log *zap.Logger, key ctxKey, field, value string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, key, value)
	enriched := log.With(zap.String(field, value))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID returns the request ID tagged onto ctx, if any.
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, ctxKeyRequestID)
}

// GetTenantID returns the tenant ID tagged onto ctx, if any.
func GetTenantID(ctx context.Context) string {
	return stringValue(ctx, ctxKeyTenantID)
}

func stringValue(ctx context.Context, key ctxKey) string {
	value, _ := ctx.Value(key).(string)
	return value
}
