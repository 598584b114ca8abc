package ports

import (
	"context"
	"time"

	"github.com/kirkegaard/tvtid-go/internal/domain"
)

// Gateway defines the interface for reading channels and schedules from the tvtid backend
type Gateway interface {
	// FetchChannels retrieves all channels known to the backend
	FetchChannels(ctx context.Context) ([]domain.Channel, error)

	// FetchDayView retrieves one day's programs for each of the given channels.
	// The request is all-or-nothing: on error no day view is returned.
	FetchDayView(ctx context.Context, date time.Time, channelIDs []string) ([]domain.DayView, error)

	// FetchProgram retrieves the full details of a single program
	FetchProgram(ctx context.Context, channelID, programID string) (domain.Program, error)
}

// ResponseCache memoizes raw backend payloads for a freshness window.
type ResponseCache interface {
	// GetOrFetch returns the live payload stored under key, or calls fetch and stores
	// its result for ttl. A failed fetch stores nothing.
	GetOrFetch(ctx context.Context, key string, fetch func(context.Context) ([]byte, error), ttl time.Duration) ([]byte, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
