package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", false)
	t.Cleanup(func() { Init("info", false) })

	ctx := ContextWithRequestID(context.Background(), "req-42")
	WithContext(ctx).Info("hello")

	require.Contains(t, buf.String(), "request_id=req-42")
	require.Contains(t, buf.String(), "msg=hello")
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "warn", true)
	t.Cleanup(func() { Init("info", false) })

	Info("dropped")
	Warn("kept")

	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), `"msg":"kept"`)
}
