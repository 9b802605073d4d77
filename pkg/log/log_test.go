package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-spatial/tilestyle/pkg/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want    slog.Level
		wantErr bool
	}{
		"error":   {want: slog.LevelError},
		"WARN":    {want: slog.LevelWarn},
		"warning": {want: slog.LevelWarn},
		"info":    {want: slog.LevelInfo},
		"":        {want: slog.LevelInfo},
		"debug":   {want: slog.LevelDebug},
		"trace":   {wantErr: true},
	}

	for in, tc := range tcs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(in)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level   string
		format  string
		want    string
		wantErr error
	}{
		"json": {
			level:  "info",
			format: "json",
			want:   `"msg":"resolved features"`,
		},
		"logfmt": {
			level:  "info",
			format: "logfmt",
			want:   `msg="resolved features"`,
		},
		"text": {
			level:  "info",
			format: "text",
			want:   "resolved features",
		},
		"bad level": {
			level:   "loud",
			format:  "json",
			wantErr: log.ErrInvalidArgument,
		},
		"bad format": {
			level:   "info",
			format:  "xml",
			wantErr: log.ErrUnknownLogFormat,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			h, err := log.CreateHandlerWithStrings(&buf, tc.level, tc.format)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)

			logger := slog.New(h)
			logger.Debug("hidden")
			logger.Info("resolved features", slog.Int("count", 3))

			assert.Contains(t, buf.String(), tc.want)
			assert.NotContains(t, buf.String(), "hidden")
		})
	}
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Default(), log.WithContext(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := log.NewContext(context.Background(), logger)
	assert.Same(t, logger, log.WithContext(ctx))

	traceID, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0123456789abcdef")
	require.NoError(t, err)

	spanCtx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))
	assert.NotEqual(t, slog.Default(), log.WithContext(spanCtx))
}
