package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kirkegaard/tvtid-go/internal/domain"
)

const (
	clockLayout = "15:04"
	dayLayout   = "2006-01-02"
)

func writeHeader(w io.Writer, sch domain.Schedule) {
	fmt.Fprintf(w, "Schedule for: %s\n", sch.Channel.Title)
	fmt.Fprintf(w, "Date: %s\n\n", sch.Date.Format(dayLayout))
}

func writeProgramLine(w io.Writer, p domain.Program, loc *time.Location) {
	fmt.Fprintf(w, "[%s] %s\n", p.Start.In(loc).Format(clockLayout), p.Title)
}

// writeDay prints every program of the schedule.
func writeDay(w io.Writer, sch domain.Schedule, loc *time.Location) error {
	writeHeader(w, sch)
	if len(sch.Programs) == 0 {
		fmt.Fprintln(w, "No programs scheduled")
		return nil
	}
	for _, p := range sch.Programs {
		writeProgramLine(w, p, loc)
	}
	return nil
}

// writeNow prints the current program followed by the rest of the day.
func writeNow(w io.Writer, sch domain.Schedule, part domain.Partition, loc *time.Location) error {
	writeHeader(w, sch)

	if part.Current == nil {
		fmt.Fprintln(w, "Nothing is currently playing")
	} else {
		writeProgramLine(w, *part.Current, loc)
	}

	if len(part.Upcoming) == 0 {
		fmt.Fprintln(w, "No programs upcoming")
		return nil
	}
	for _, p := range part.Upcoming {
		writeProgramLine(w, p, loc)
	}
	return nil
}

// writeLineup prints one line per channel that is airing something: the current program
// and up to next upcoming ones. Channel titles are padded to a common width.
func writeLineup(w io.Writer, rows []domain.NowPlaying, next int, loc *time.Location) error {
	width := 0
	for _, row := range rows {
		if n := len([]rune(row.Channel.Title)); n > width {
			width = n
		}
	}

	printed := 0
	for _, row := range rows {
		if row.Current == nil {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%-*s [%s] %s", width, row.Channel.Title, row.Current.Start.In(loc).Format(clockLayout), row.Current.Title)
		for i, p := range row.Upcoming {
			if i >= next {
				break
			}
			fmt.Fprintf(&b, "  [%s] %s", p.Start.In(loc).Format(clockLayout), p.Title)
		}
		fmt.Fprintln(w, b.String())
		printed++
	}

	if printed == 0 {
		fmt.Fprintln(w, "Nothing is currently playing")
	}
	return nil
}

func writeChannels(w io.Writer, channels []domain.Channel) error {
	width := len("ID")
	for _, ch := range channels {
		if len(ch.ID) > width {
			width = len(ch.ID)
		}
	}

	fmt.Fprintf(w, "%-*s  %s\n", width, "ID", "TITLE")
	for _, ch := range channels {
		fmt.Fprintf(w, "%-*s  %s\n", width, ch.ID, ch.Title)
	}
	return nil
}

func writeProgram(w io.Writer, p domain.Program, loc *time.Location) error {
	start, stop := p.Start.In(loc), p.Stop.In(loc)

	fmt.Fprintln(w, p.Title)
	fmt.Fprintf(w, "Channel: %s\n", p.ChannelID)
	fmt.Fprintf(w, "Time: %s %s-%s (%d min)\n",
		start.Format(dayLayout), start.Format(clockLayout), stop.Format(clockLayout), int(p.Duration().Minutes()))

	if p.Category != "" {
		fmt.Fprintf(w, "Category: %s\n", p.Category)
	}
	var produced []string
	if p.ProductionYear > 0 {
		produced = append(produced, fmt.Sprint(p.ProductionYear))
	}
	if p.ProductionCountry != "" {
		produced = append(produced, p.ProductionCountry)
	}
	if len(produced) > 0 {
		fmt.Fprintf(w, "Produced: %s\n", strings.Join(produced, ", "))
	}
	if p.URL != "" {
		fmt.Fprintf(w, "URL: %s\n", p.URL)
	}

	if text := firstNonEmpty(p.Description, p.Teaser); text != "" {
		fmt.Fprintf(w, "\n%s\n", text)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
