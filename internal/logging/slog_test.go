package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "resume", "a", 1)
	log.Info(ctx, "login", "b", 2)
	log.Warn(ctx, "claims", "c", 3)
	log.Error(ctx, "storage", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=resume", "a=1",
		"level=INFO", "msg=login", "b=2",
		"level=WARN", "msg=claims", "c=3",
		"level=ERROR", "msg=storage", "d=4",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("component", "session", "user", "ana@plasticos.example").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, want := range []string{"msg=hello", "component=session", "user=ana@plasticos.example", "k=v"} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_RequestIDFromContext(t *testing.T) {
	log, buf := newTestLogger(t)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	log.Info(ctx, "api call")

	assert.Contains(t, buf.String(), "request_id=req-42")
}

func TestRequestIDFromContext(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = RequestIDFromContext(ContextWithRequestID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := RequestIDFromContext(ContextWithRequestID(context.Background(), "x"))
	assert.True(t, ok)
	assert.Equal(t, "x", id)
}
