package observability

import (
	"context"
	"testing"
	"time"
)

type captureEngineHooks struct {
	NoopEngineHooks
	dragStarts int
	dragEnds   int
}

func (h *captureEngineHooks) OnDragStart(context.Context, string, bool) {
	h.dragStarts++
}

func (h *captureEngineHooks) OnDragEnd(context.Context, string, bool, time.Duration) {
	h.dragEnds++
}

func TestSetAndResetEngineHooks(t *testing.T) {
	t.Cleanup(Reset)

	h := &captureEngineHooks{}
	SetEngineHooks(h)

	Engine().OnDragStart(context.Background(), "n1", false)
	Engine().OnDragEnd(context.Background(), "n1", true, time.Millisecond)
	// Embedded no-ops cover the rest of the interface.
	Engine().OnGroupCreated(context.Background(), "group-1", 2)

	if h.dragStarts != 1 || h.dragEnds != 1 {
		t.Errorf("captured %d starts, %d ends", h.dragStarts, h.dragEnds)
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset should restore the no-op engine hooks")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset should restore the no-op store hooks")
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	t.Cleanup(Reset)

	SetEngineHooks(nil)
	if Engine() == nil {
		t.Fatal("nil registration must not clear the active hooks")
	}
	SetStoreHooks(nil)
	if Store() == nil {
		t.Fatal("nil registration must not clear the active hooks")
	}
}
