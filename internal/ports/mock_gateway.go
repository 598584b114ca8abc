package ports

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kirkegaard/tvtid-go/internal/domain"
)

// MockGateway is a flexible test double for Gateway with function field customization.
//
// Usage with function fields:
//
//	mock := &ports.MockGateway{
//	    FetchChannelsFunc: func(ctx context.Context) ([]domain.Channel, error) {
//	        return []domain.Channel{{ID: "1", Title: "DR1"}}, nil
//	    },
//	}
//
// Usage with builder pattern:
//
//	mock := ports.NewMockGateway().
//	    WithChannels([]domain.Channel{{ID: "1", Title: "DR1"}}).
//	    WithPrograms("1", []domain.Program{{ID: "p1", Title: "TV Avisen"}})
type MockGateway struct {
	FetchChannelsFunc func(ctx context.Context) ([]domain.Channel, error)
	FetchDayViewFunc  func(ctx context.Context, date time.Time, channelIDs []string) ([]domain.DayView, error)
	FetchProgramFunc  func(ctx context.Context, channelID, programID string) (domain.Program, error)

	mu       sync.RWMutex
	channels []domain.Channel
	programs map[string][]domain.Program
	calls    map[string]int
}

var _ Gateway = (*MockGateway)(nil)

// NewMockGateway creates a new mock with default behavior.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		channels: []domain.Channel{},
		programs: make(map[string][]domain.Program),
		calls:    make(map[string]int),
	}
}

// WithChannels sets the channels returned by FetchChannels.
func (m *MockGateway) WithChannels(channels []domain.Channel) *MockGateway {
	m.mu.Lock()
	m.channels = channels
	m.mu.Unlock()
	return m
}

// WithPrograms sets the programs returned for a channel by FetchDayView, regardless of date.
func (m *MockGateway) WithPrograms(channelID string, programs []domain.Program) *MockGateway {
	m.mu.Lock()
	if m.programs == nil {
		m.programs = make(map[string][]domain.Program)
	}
	m.programs[channelID] = programs
	m.mu.Unlock()
	return m
}

// Calls returns how often the named method was invoked.
func (m *MockGateway) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

func (m *MockGateway) record(method string) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
	m.mu.Unlock()
}

// Implementation of Gateway interface

func (m *MockGateway) FetchChannels(ctx context.Context) ([]domain.Channel, error) {
	m.record("FetchChannels")
	if m.FetchChannelsFunc != nil {
		return m.FetchChannelsFunc(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Channel, len(m.channels))
	copy(out, m.channels)
	return out, nil
}

func (m *MockGateway) FetchDayView(ctx context.Context, date time.Time, channelIDs []string) ([]domain.DayView, error) {
	m.record("FetchDayView")
	if m.FetchDayViewFunc != nil {
		return m.FetchDayViewFunc(ctx, date, channelIDs)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	views := make([]domain.DayView, 0, len(channelIDs))
	for _, id := range channelIDs {
		progs := make([]domain.Program, len(m.programs[id]))
		copy(progs, m.programs[id])
		views = append(views, domain.DayView{ChannelID: id, Programs: progs})
	}
	return views, nil
}

func (m *MockGateway) FetchProgram(ctx context.Context, channelID, programID string) (domain.Program, error) {
	m.record("FetchProgram")
	if m.FetchProgramFunc != nil {
		return m.FetchProgramFunc(ctx, channelID, programID)
	}
	if channelID == "" || programID == "" {
		return domain.Program{}, domain.ErrInvalidQuery
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.programs[channelID] {
		if p.ID == programID {
			return p, nil
		}
	}
	return domain.Program{}, fmt.Errorf("%w: program %s/%s: status 404", domain.ErrNetwork, channelID, programID)
}
