package xlog_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xwcache/pkg/observability/xlog"
)

func buildLogger(t *testing.T, b *xlog.Builder) xlog.LevelLogger {
	t.Helper()
	logger, cleanup, err := b.Build()
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := cleanup(); err != nil {
			t.Errorf("cleanup error: %v", err)
		}
	})
	return logger
}

func TestBuilder_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(t, xlog.New().SetOutput(&buf))

	logger.Info(context.Background(), "hello", xlog.Component("xwlru"), xlog.Count(3))

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "component=xwlru")
	assert.Contains(t, out, "count=3")
}

func TestBuilder_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(t, xlog.New().SetOutput(&buf).SetFormat(" JSON "))

	logger.Warn(context.Background(), "evicted", xlog.Err(errors.New("boom")))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{"), "expected json, got %q", out)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"level":"WARN"`)
}

func TestBuilder_FirstErrorWins(t *testing.T) {
	_, _, err := xlog.New().
		SetFormat("xml").
		SetLevelString("nope").
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name string
		b    *xlog.Builder
	}{
		{"nil output", xlog.New().SetOutput(nil)},
		{"bad level", xlog.New().SetLevelString("verbose")},
		{"empty rotation file", xlog.New().SetRotation("  ", 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.b.Build()
			assert.Error(t, err)
		})
	}
}

func TestLogger_DynamicLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(t, xlog.New().SetOutput(&buf))
	ctx := context.Background()

	logger.Debug(ctx, "hidden")
	assert.Empty(t, buf.String())
	assert.False(t, logger.Enabled(ctx, xlog.LevelDebug))

	logger.SetLevel(xlog.LevelDebug)
	assert.Equal(t, xlog.LevelDebug, logger.Level())
	logger.Debug(ctx, "visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestLogger_WithSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(t, xlog.New().SetOutput(&buf).SetLevel(xlog.LevelWarn))
	child := logger.With(xlog.Operation("prune"))

	child.Info(context.Background(), "dropped")
	assert.Empty(t, buf.String())

	logger.SetLevel(xlog.LevelInfo)
	child.Info(context.Background(), "kept")
	assert.Contains(t, buf.String(), "operation=prune")
}

func TestLogger_NilContext(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(t, xlog.New().SetOutput(&buf))

	//nolint:staticcheck // 验证 nil ctx 不会 panic
	logger.Error(nil, "nil ctx")
	assert.Contains(t, buf.String(), "nil ctx")
}

func TestBuilder_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, cleanup, err := xlog.New().SetRotation(path, 0).Build()
	require.NoError(t, err)

	logger.Info(context.Background(), "to file")
	require.NoError(t, cleanup())
	// 清理函数可重复调用
	require.NoError(t, cleanup())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    xlog.Level
		wantErr bool
	}{
		{"debug", xlog.LevelDebug, false},
		{" INFO ", xlog.LevelInfo, false},
		{"warning", xlog.LevelWarn, false},
		{"Error", xlog.LevelError, false},
		{"trace", xlog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := xlog.ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, xlog.ErrInvalidLevel)
				assert.Equal(t, tt.want, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_UnmarshalText(t *testing.T) {
	var l xlog.Level
	require.NoError(t, l.UnmarshalText([]byte("warn")))
	assert.Equal(t, xlog.LevelWarn, l)
	assert.Equal(t, "WARN", l.String())
	assert.ErrorIs(t, l.UnmarshalText([]byte("loud")), xlog.ErrInvalidLevel)
	assert.Equal(t, xlog.LevelWarn, l, "failed unmarshal keeps the previous level")

	assert.Equal(t, "ERROR+1", (xlog.LevelError + 1).String())
}

func TestLogger_LogWithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(t, xlog.New().SetOutput(&buf).SetLevel(xlog.LevelWarn))

	assert.False(t, logger.Enabled(context.Background(), xlog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), xlog.LevelError))

	logger.Log(context.Background(), xlog.LevelInfo, "dropped")
	logger.Log(context.Background(), xlog.LevelError+1, "kept", xlog.Count(1))
	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "level=ERROR+1")
	assert.Contains(t, out, "count=1")
}

func TestDefaultAndDiscard(t *testing.T) {
	assert.NotNil(t, xlog.Default())

	d := xlog.Discard()
	assert.False(t, d.Enabled(context.Background(), xlog.LevelError))

	prev := xlog.Default()
	t.Cleanup(func() { xlog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := buildLogger(t, xlog.New().SetOutput(&buf))
	xlog.SetDefault(logger)
	xlog.SetDefault(nil)
	xlog.Info(context.Background(), "global")
	assert.Contains(t, buf.String(), "msg=global")
}
