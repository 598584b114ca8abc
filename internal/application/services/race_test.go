package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kirkegaard/tvtid-go/internal/domain"
	"github.com/kirkegaard/tvtid-go/internal/ports"
)

// TestScheduleService_ConcurrentLineupAndReconfigure runs lineups while the default
// channels, zone and logger are being changed.
func TestScheduleService_ConcurrentLineupAndReconfigure(t *testing.T) {
	mock := ports.NewMockGateway().
		WithChannels(testChannels).
		WithPrograms("1", []domain.Program{
			{ID: "a", Title: "A", Start: at(2, 10, 0), Stop: at(2, 11, 0)},
		})
	service := NewScheduleService(mock, NewChannelService(mock, 0, nil), fixedClock(at(2, 10, 30)))
	service.SetDefaultChannels([]string{"1"})
	ctx := context.Background()

	const goroutines = 20
	const iterations = 50

	var wg sync.WaitGroup
	wg.Add(goroutines * 2)

	// Concurrent readers
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				if _, err := service.Lineup(ctx, nil); err != nil {
					t.Errorf("Lineup failed: %v", err)
				}
			}
		}()
	}

	// Concurrent writers
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				switch i % 3 {
				case 0:
					service.SetDefaultChannels([]string{"1", "2"})
				case 1:
					service.SetLocation(time.UTC)
				default:
					service.SetLogger(zap.NewNop())
				}
			}
		}(i)
	}

	wg.Wait()
}

// TestChannelService_ConcurrentResolve resolves names from many goroutines at once.
func TestChannelService_ConcurrentResolve(t *testing.T) {
	mock := ports.NewMockGateway().WithChannels(testChannels)
	service := NewChannelService(mock, 0, nil)
	ctx := context.Background()

	queries := []string{"dr1", "dr 2", "tv2"}
	want := map[string]string{"dr1": "1", "dr 2": "2", "tv2": "3"}

	const goroutines = 15
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			q := queries[i%len(queries)]
			m, err := service.Resolve(ctx, q)
			if err != nil {
				t.Errorf("Resolve(%q) failed: %v", q, err)
				return
			}
			if m.ChannelID != want[q] {
				t.Errorf("Resolve(%q) = %s, want %s", q, m.ChannelID, want[q])
			}
		}(i)
	}
	wg.Wait()
}
