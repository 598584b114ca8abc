package ports

import (
	"context"
	"testing"
	"time"
)

// GatewayFactory creates a Gateway instance and returns a cleanup function.
type GatewayFactory func() (Gateway, func())

// RunGatewayContractTests runs the contract test suite against a Gateway implementation.
// The gateway behind the factory must know at least one channel with at least one program.
//
// Usage:
//
//	func TestMyGateway(t *testing.T) {
//	    factory := func() (Gateway, func()) {
//	        gw := NewMyGateway()
//	        return gw, func() {}
//	    }
//	    RunGatewayContractTests(t, factory)
//	}
func RunGatewayContractTests(t *testing.T, factory GatewayFactory) {
	t.Run("Channels", func(t *testing.T) { testChannels(t, factory) })
	t.Run("DayView", func(t *testing.T) { testDayView(t, factory) })
	t.Run("Program", func(t *testing.T) { testProgram(t, factory) })
	t.Run("ContextCancellation", func(t *testing.T) { testContextCancellation(t, factory) })
}

func testChannels(t *testing.T, factory GatewayFactory) {
	gw, cleanup := factory()
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	channels, err := gw.FetchChannels(ctx)
	if err != nil {
		t.Fatalf("FetchChannels failed: %v", err)
	}
	if len(channels) == 0 {
		t.Fatal("FetchChannels returned no channels")
	}
	for i, ch := range channels {
		if ch.ID == "" {
			t.Errorf("channel %d has empty ID", i)
		}
		if ch.Title == "" {
			t.Errorf("channel %d (%s) has empty Title", i, ch.ID)
		}
	}
}

func testDayView(t *testing.T, factory GatewayFactory) {
	gw, cleanup := factory()
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	channels, err := gw.FetchChannels(ctx)
	if err != nil || len(channels) == 0 {
		t.Fatalf("FetchChannels failed: %v (%d channels)", err, len(channels))
	}
	id := channels[0].ID

	views, err := gw.FetchDayView(ctx, time.Now(), []string{id})
	if err != nil {
		t.Fatalf("FetchDayView failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 day view, got %d", len(views))
	}
	if views[0].ChannelID != id {
		t.Errorf("day view channel: got %q, want %q", views[0].ChannelID, id)
	}
	if len(views[0].Programs) == 0 {
		t.Fatal("day view has no programs")
	}
	for _, p := range views[0].Programs {
		if p.ID == "" || p.Title == "" {
			t.Errorf("program with missing id or title: %+v", p)
		}
		if p.Stop.Before(p.Start) {
			t.Errorf("program %s stops before it starts", p.ID)
		}
	}

	first := views[0].Programs[0]
	got, err := gw.FetchProgram(ctx, id, first.ID)
	if err != nil {
		t.Fatalf("FetchProgram(%s, %s) failed: %v", id, first.ID, err)
	}
	if got.Title != first.Title {
		t.Errorf("program title: got %q, want %q", got.Title, first.Title)
	}
}

func testProgram(t *testing.T, factory GatewayFactory) {
	gw, cleanup := factory()
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := gw.FetchProgram(ctx, "", ""); err == nil {
		t.Error("FetchProgram with empty ids should fail")
	}
	if _, err := gw.FetchProgram(ctx, "does-not-exist", "nope"); err == nil {
		t.Error("FetchProgram for an unknown program should fail")
	}
}

func testContextCancellation(t *testing.T, factory GatewayFactory) {
	gw, cleanup := factory()
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := gw.FetchChannels(ctx); err == nil {
		// Implementations serving from a warm cache may answer without checking ctx
		t.Log("Implementation returned channels despite canceled context")
	}
}
