package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kirkegaard/tvtid-go/internal/domain"
	"github.com/kirkegaard/tvtid-go/internal/pkg/fuzzy"
	"github.com/kirkegaard/tvtid-go/internal/ports"
)

// ChannelService lists channels and resolves free-text channel names
type ChannelService struct {
	gateway  ports.Gateway
	minScore int
	logger   *zap.Logger
}

// NewChannelService creates a new channel service. Matches scoring below minScore are
// rejected; 0 accepts any best match.
func NewChannelService(gateway ports.Gateway, minScore int, logger *zap.Logger) *ChannelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChannelService{
		gateway:  gateway,
		minScore: minScore,
		logger:   logger,
	}
}

// Channels returns all known channels keyed by id.
func (s *ChannelService) Channels(ctx context.Context) (map[string]domain.Channel, error) {
	chs, err := s.gateway.FetchChannels(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]domain.Channel, len(chs))
	for _, ch := range chs {
		out[ch.ID] = ch
	}
	return out, nil
}

// List returns all known channels ordered by title.
func (s *ChannelService) List(ctx context.Context) ([]domain.Channel, error) {
	byID, err := s.Channels(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Channel, 0, len(byID))
	for _, ch := range byID {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Resolve maps a free-text channel name to the best matching channel.
func (s *ChannelService) Resolve(ctx context.Context, query string) (domain.MatchResult, error) {
	// Reject empty input before touching the backend.
	if fuzzy.Normalize(query) == "" {
		return domain.MatchResult{}, fmt.Errorf("%w: empty channel name", domain.ErrInvalidQuery)
	}

	channels, err := s.Channels(ctx)
	if err != nil {
		return domain.MatchResult{}, err
	}

	m, err := Match(query, channels)
	if err != nil {
		return domain.MatchResult{}, err
	}

	s.logger.Debug("resolved channel",
		zap.String("query", query),
		zap.String("channel", m.Title),
		zap.String("id", m.ChannelID),
		zap.Int("score", m.Score))

	if s.minScore > 0 && m.Score < s.minScore {
		return domain.MatchResult{}, fmt.Errorf("%w: %q (best candidate %q scored %d, need %d)",
			domain.ErrChannelNotFound, query, m.Title, m.Score, s.minScore)
	}
	return m, nil
}
