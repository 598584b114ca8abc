package domain

import "time"

// Channel represents a TV channel as listed by the backend
type Channel struct {
	ID       string
	Title    string
	Icon     string
	Logo     string
	SVGLogo  string
	Category string
	Region   string
	Language string
}

// Program represents a single broadcast in a channel's day view
type Program struct {
	ID                string
	Title             string
	Start             time.Time
	Stop              time.Time
	ChannelID         string
	URL               string
	Category          string
	Description       string
	ProductionYear    int
	ProductionCountry string
	Teaser            string
	SeriesID          string
	SeriesInfo        map[string]any
}

// Duration returns the scheduled length of the program.
func (p Program) Duration() time.Duration {
	return p.Stop.Sub(p.Start)
}

// Contains reports whether t lies within the half-open interval [Start, Stop).
func (p Program) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.Stop)
}

// DayView is one channel's program list as returned by the backend for a date.
type DayView struct {
	ChannelID string
	Programs  []Program
}

// Partition splits a schedule around an instant.
type Partition struct {
	Aired    []Program
	Current  *Program
	Upcoming []Program
}

// NowPlaying pairs a channel with the partition of its schedule at "now".
type NowPlaying struct {
	Channel Channel
	Partition
}

// MatchResult is the outcome of resolving free text to a channel.
type MatchResult struct {
	ChannelID string
	Title     string
	Score     int // 0..100
}
