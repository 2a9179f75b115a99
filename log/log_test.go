package log

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForComponent(t *testing.T) {
	t.Cleanup(func() {
		To(slog.DiscardHandler)
	})

	// Built before a handler is installed, the component attribute must survive.
	sut := ForComponent("test")

	var b bytes.Buffer
	To(slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sut.With(Topic("a/b"), PayloadSize(42)).Debug("hello")

	out := b.String()
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "topic=a/b")
	assert.Contains(t, out, "size=42")
	assert.Contains(t, out, "msg=hello")
}

func TestGroups(t *testing.T) {
	t.Cleanup(func() {
		To(slog.DiscardHandler)
	})

	var b bytes.Buffer
	To(slog.NewTextHandler(&b, nil))

	ForComponent("test").WithGroup("g").Info("grouped", Reason("why"))

	assert.Contains(t, b.String(), "g.reason=why")
}

func TestNoHandler(t *testing.T) {
	sut := &swappableHandler{target: sink.target}
	sink.target.Store(nil)

	require.False(t, sut.Enabled(t.Context(), slog.LevelError))
	require.NoError(t, sut.Handle(t.Context(), slog.Record{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	a := Error(err)

	assert.Equal(t, ErrorKey, a.Key)
	assert.Equal(t, err, a.Value.Any())
}
