package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/fluxcore/internal/ir"
)

func TestSlogObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewSlogObserver(logger)
	ctx := context.Background()

	obs.OnEvent(ctx, Event{Type: EventDispatchApplied, StoreID: "s1", StoreName: "todo", Action: ir.NewAction("ADD_ITEM", nil), Version: 3})
	obs.OnEvent(ctx, Event{Type: EventDispatchFailed, StoreID: "s1", Action: ir.NewAction("ADD_ITEM", 1), Err: errors.New("bad payload")})

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG msg=dispatch.applied store=s1 action=ADD_ITEM version=3")
	assert.Contains(t, out, "name=todo")
	assert.Contains(t, out, `level=WARN msg=dispatch.failed`)
	assert.Contains(t, out, `error="bad payload"`)
}

func TestMultiObserver_SkipsNil(t *testing.T) {
	var got []EventType
	rec := ObserverFunc(func(_ context.Context, e Event) { got = append(got, e.Type) })

	m := NewMultiObserver(nil, rec, NoOpObserver{}, rec)
	m.OnEvent(context.Background(), Event{Type: EventDispatchIgnored})

	assert.Equal(t, []EventType{EventDispatchIgnored, EventDispatchIgnored}, got)
}

func TestWithObserver_Accumulates(t *testing.T) {
	cfg := defaultConfig()
	count := 0
	rec := ObserverFunc(func(context.Context, Event) { count++ })

	WithObserver(rec)(&cfg)
	WithObserver(rec)(&cfg)
	cfg.observer.OnEvent(context.Background(), Event{})

	assert.Equal(t, 2, count)
}

func TestLogicalClock(t *testing.T) {
	c := NewClockAt(41)
	assert.Equal(t, int64(42), c.Next())
	assert.Equal(t, int64(42), c.Current())

	var zero LogicalClock
	assert.Equal(t, int64(1), zero.Next())
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "7", a[14:15])
}
