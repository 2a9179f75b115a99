package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

const (
	ComponentKey   = "component"
	ErrorKey       = "error"
	TopicKey       = "topic"
	PayloadSizeKey = "size"
	ReasonKey      = "reason"
)

// Error returns a slog.Attr for the provided error. The key will be ErrorKey.
func Error(e error) slog.Attr {
	return slog.Any(ErrorKey, e)
}

// Topic returns a slog.Attr for an MQTT topic. The key will be TopicKey.
func Topic(t string) slog.Attr {
	return slog.String(TopicKey, t)
}

// PayloadSize returns a slog.Attr holding the length of a discovery payload in bytes. The key will be PayloadSizeKey.
func PayloadSize(n int) slog.Attr {
	return slog.Int(PayloadSizeKey, n)
}

// Reason returns a slog.Attr explaining why a publish was skipped. The key will be ReasonKey.
func Reason(r string) slog.Attr {
	return slog.String(ReasonKey, r)
}

// swappableHandler forwards to whatever slog.Handler was most recently installed with To. Records are dropped while no
// handler is installed. Attributes and groups are replayed onto the installed handler so loggers built before To is
// called keep their context.
type swappableHandler struct {
	target *atomic.Pointer[slog.Handler]
	derive []func(slog.Handler) slog.Handler
}

func (s *swappableHandler) load() slog.Handler {
	h := s.target.Load()
	if h == nil {
		return nil
	}

	result := *h
	for _, d := range s.derive {
		result = d(result)
	}

	return result
}

func (s *swappableHandler) with(d func(slog.Handler) slog.Handler) *swappableHandler {
	derive := make([]func(slog.Handler) slog.Handler, len(s.derive), len(s.derive)+1)
	copy(derive, s.derive)

	return &swappableHandler{target: s.target, derive: append(derive, d)}
}

func (s *swappableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	h := s.target.Load()
	if h == nil {
		return false
	}

	return (*h).Enabled(ctx, level)
}

func (s *swappableHandler) Handle(ctx context.Context, record slog.Record) error {
	if h := s.load(); h != nil {
		return h.Handle(ctx, record)
	}

	return nil
}

func (s *swappableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}

	return s.with(func(h slog.Handler) slog.Handler {
		return h.WithAttrs(attrs)
	})
}

func (s *swappableHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}

	return s.with(func(h slog.Handler) slog.Handler {
		return h.WithGroup(name)
	})
}

var _ slog.Handler = &swappableHandler{}

var sink = &swappableHandler{target: &atomic.Pointer[slog.Handler]{}}

// To routes every logger handed out by this package to the provided slog.Handler. Until To is called, hadiscovery logs
// nothing. This is the diagnostics hook for skipped and dispatched discovery publishes.
func To(h slog.Handler) {
	sink.target.Store(&h)
}

// ForComponent constructs a slog.Logger for the specified component (which is stored in an attribute with the key
// ComponentKey).
func ForComponent(component string) *slog.Logger {
	return slog.New(sink).With(slog.String(ComponentKey, component))
}
