//go:build integration

package integration

import (
	"time"

	"github.com/kirkegaard/tvtid-go/internal/ports"
)

func fixedClock(t time.Time) ports.Clock {
	return ports.ClockFunc(func() time.Time { return t })
}
