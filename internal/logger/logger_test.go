package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestEntryUsesContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "debug", Output: &buf, ServiceName: "svc"})
	ctx := SetUploadID(l.WithContext(context.Background()), "u1")

	With(Fields{FieldCount: 3}).WithDuration(12).Info(ctx, "done %d", 1)

	line := decodeLine(t, &buf)
	assert.Equal(t, "done 1", line["message"])
	assert.Equal(t, "u1", line[FieldUploadID])
	assert.Equal(t, "svc", line["service"])
	assert.EqualValues(t, 3, line[FieldCount])
	assert.EqualValues(t, 12, line[FieldDurationMs])
}

func TestEntryWithDoesNotMutate(t *testing.T) {
	base := With(Fields{FieldStatus: "a"})
	_ = base.WithStatus("b")
	assert.Equal(t, "a", base.fields[FieldStatus])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "warn", Output: &buf})
	ctx := l.WithContext(context.Background())

	CtxInfo(ctx, "hidden")
	assert.Zero(t, buf.Len())

	CtxWarn(ctx, "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, GetDefault(), FromContext(context.Background()))
	assert.Same(t, GetDefault(), FromContext(nil)) //nolint:staticcheck
}

func TestGetRequestID(t *testing.T) {
	ctx := WithField(Discard().WithContext(context.Background()), FieldRequestID, "r-1")
	assert.Equal(t, "r-1", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_MAX_SIZE", "5")
	t.Setenv("LOG_COMPRESS", "not-a-bool")

	cfg := LoadFromEnv()

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, 5, cfg.Rotation.MaxSizeMB)
	assert.True(t, cfg.Rotation.Compress)
	assert.Equal(t, "local", cfg.Environment)
}
