package services

import (
	"fmt"

	"github.com/kirkegaard/tvtid-go/internal/domain"
	"github.com/kirkegaard/tvtid-go/internal/pkg/fuzzy"
)

// Match returns the channel whose title is closest to query. Equal scores are broken by
// the lexicographically smallest title, then the smallest id, so the result only depends
// on the query and the candidate set.
func Match(query string, channels map[string]domain.Channel) (domain.MatchResult, error) {
	if fuzzy.Normalize(query) == "" {
		return domain.MatchResult{}, fmt.Errorf("%w: empty channel name", domain.ErrInvalidQuery)
	}
	if len(channels) == 0 {
		return domain.MatchResult{}, domain.ErrNoChannelsAvailable
	}

	var (
		best  domain.MatchResult
		found bool
	)
	for id, ch := range channels {
		candidate := domain.MatchResult{
			ChannelID: id,
			Title:     ch.Title,
			Score:     fuzzy.Score(query, ch.Title),
		}
		if !found || ranksBefore(candidate, best) {
			best = candidate
			found = true
		}
	}
	return best, nil
}

func ranksBefore(a, b domain.MatchResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.ChannelID < b.ChannelID
}
