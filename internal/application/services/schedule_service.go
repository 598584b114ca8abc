package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kirkegaard/tvtid-go/internal/domain"
	"github.com/kirkegaard/tvtid-go/internal/ports"
)

// ScheduleService builds channel schedules from backend day views
type ScheduleService struct {
	gateway  ports.Gateway
	channels *ChannelService
	clock    ports.Clock

	mu              sync.RWMutex
	logger          *zap.Logger
	defaultChannels []string
	loc             *time.Location
}

// NewScheduleService creates a new schedule service
func NewScheduleService(gateway ports.Gateway, channels *ChannelService, clock ports.Clock) *ScheduleService {
	if clock == nil {
		clock = ports.SystemClock
	}
	return &ScheduleService{
		gateway:  gateway,
		channels: channels,
		clock:    clock,
		logger:   zap.NewNop(),
		loc:      time.Local,
	}
}

// SetDefaultChannels configures the channels used when a request names none.
func (s *ScheduleService) SetDefaultChannels(channelIDs []string) {
	ids := make([]string, 0, len(channelIDs))
	for _, id := range channelIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	s.mu.Lock()
	s.defaultChannels = ids
	s.mu.Unlock()
}

// SetLocation sets the zone used to decide which broadcast day "today" is.
func (s *ScheduleService) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	s.mu.Lock()
	s.loc = loc
	s.mu.Unlock()
}

// SetLogger replaces the service logger.
func (s *ScheduleService) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.mu.Lock()
	s.logger = logger
	s.mu.Unlock()
}

func (s *ScheduleService) log() *zap.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logger
}

// Today returns the broadcast date the current instant belongs to.
func (s *ScheduleService) Today() time.Time {
	s.mu.RLock()
	loc := s.loc
	s.mu.RUnlock()
	return domain.BroadcastDate(s.clock.Now().In(loc))
}

// Now partitions schedule around the current instant.
func (s *ScheduleService) Now(schedule domain.Schedule) domain.Partition {
	return schedule.At(s.clock.Now())
}

// SchedulesFor returns the schedules of the given channels for date, in request order.
// No ids means the configured default channels. The day views are fetched in one
// request; any failure fails the whole batch.
func (s *ScheduleService) SchedulesFor(ctx context.Context, date time.Time, channelIDs []string) ([]domain.Schedule, error) {
	ids := s.requestedIDs(channelIDs)
	if len(ids) == 0 {
		return []domain.Schedule{}, nil
	}

	known, err := s.channels.Channels(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("%w: no channel with id %q", domain.ErrChannelNotFound, id)
		}
	}

	views, err := s.gateway.FetchDayView(ctx, date, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.DayView, len(views))
	for _, v := range views {
		if _, ok := known[v.ChannelID]; !ok {
			return nil, fmt.Errorf("%w: day view for unknown channel %q", domain.ErrMalformedResponse, v.ChannelID)
		}
		byID[v.ChannelID] = v
	}

	schedules := make([]domain.Schedule, 0, len(ids))
	for _, id := range ids {
		view, ok := byID[id]
		if !ok {
			// The backend leaves out channels with nothing scheduled.
			s.log().Debug("no day view for channel", zap.String("id", id), zap.Time("date", date))
		}
		sch, err := domain.NewSchedule(known[id], date, view.Programs)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, sch)
	}
	return schedules, nil
}

// SchedulesForToday returns the schedules for the current broadcast date.
func (s *ScheduleService) SchedulesForToday(ctx context.Context, channelIDs []string) ([]domain.Schedule, error) {
	return s.SchedulesFor(ctx, s.Today(), channelIDs)
}

// Lineup returns what each channel is airing right now.
func (s *ScheduleService) Lineup(ctx context.Context, channelIDs []string) ([]domain.NowPlaying, error) {
	schedules, err := s.SchedulesForToday(ctx, channelIDs)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]domain.NowPlaying, 0, len(schedules))
	for _, sch := range schedules {
		out = append(out, domain.NowPlaying{Channel: sch.Channel, Partition: sch.At(now)})
	}
	return out, nil
}

// Program returns the details of a single program.
func (s *ScheduleService) Program(ctx context.Context, channelID, programID string) (domain.Program, error) {
	channelID, programID = strings.TrimSpace(channelID), strings.TrimSpace(programID)
	if channelID == "" || programID == "" {
		return domain.Program{}, fmt.Errorf("%w: channel and program id are required", domain.ErrInvalidQuery)
	}
	return s.gateway.FetchProgram(ctx, channelID, programID)
}

func (s *ScheduleService) requestedIDs(channelIDs []string) []string {
	if len(channelIDs) == 0 {
		s.mu.RLock()
		channelIDs = s.defaultChannels
		s.mu.RUnlock()
	}

	seen := make(map[string]struct{}, len(channelIDs))
	ids := make([]string, 0, len(channelIDs))
	for _, id := range channelIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
