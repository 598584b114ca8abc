package domain

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// BroadcastDayStartHour is the first hour that belongs to the current broadcast day.
// Earlier hours still belong to the previous day's schedule.
const BroadcastDayStartHour = 6

// Schedule pairs a channel with its programs for one broadcast day.
type Schedule struct {
	Channel  Channel
	Date     time.Time
	Programs []Program
}

// NewSchedule builds a schedule from an unordered program list. The list is copied
// and sorted by start time, shorter programs first on equal starts, so the last
// program starting at or before an instant is the one that can contain it. A program
// that stops before it starts is rejected.
func NewSchedule(channel Channel, date time.Time, programs []Program) (Schedule, error) {
	progs := slices.Clone(programs)
	for _, p := range progs {
		if p.Stop.Before(p.Start) {
			return Schedule{}, fmt.Errorf("%w: program %s (%q) stops before it starts", ErrMalformedResponse, p.ID, p.Title)
		}
	}
	sort.SliceStable(progs, func(i, j int) bool {
		if !progs[i].Start.Equal(progs[j].Start) {
			return progs[i].Start.Before(progs[j].Start)
		}
		return progs[i].Stop.Before(progs[j].Stop)
	})
	if progs == nil {
		progs = []Program{}
	}
	return Schedule{Channel: channel, Date: date, Programs: progs}, nil
}

// At partitions the programs around t. The program whose [Start, Stop) contains t is
// current; when none does, the list is split at the gap so that aired, current and
// upcoming always concatenate back to the full list.
func (s Schedule) At(t time.Time) Partition {
	// First program starting strictly after t. Only its predecessor can contain t.
	idx := sort.Search(len(s.Programs), func(i int) bool {
		return s.Programs[i].Start.After(t)
	})

	if idx > 0 && s.Programs[idx-1].Contains(t) {
		current := s.Programs[idx-1]
		return Partition{
			Aired:    slices.Clone(s.Programs[:idx-1]),
			Current:  &current,
			Upcoming: slices.Clone(s.Programs[idx:]),
		}
	}

	return Partition{
		Aired:    slices.Clone(s.Programs[:idx]),
		Upcoming: slices.Clone(s.Programs[idx:]),
	}
}

// BroadcastDate returns the schedule date that t belongs to, at midnight in t's location.
// Broadcast days run past midnight, so hours before BroadcastDayStartHour map to the
// previous calendar date.
func BroadcastDate(t time.Time) time.Time {
	if t.Hour() < BroadcastDayStartHour {
		t = t.AddDate(0, 0, -1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
