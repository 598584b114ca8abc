package tvtid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kirkegaard/tvtid-go/internal/domain"
)

// idValue is an identifier the backend sends either as a JSON number or a string.
type idValue string

func (v *idValue) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = idValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", b)
	}
	*v = idValue(n.String())
	return nil
}

// textValue is an optional descriptive field. Strings and numbers are kept as text;
// any other JSON type is dropped rather than failing the whole record.
type textValue string

func (v *textValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = textValue(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*v = textValue(b)
	}
	return nil
}

type channelRecord struct {
	ID       *idValue  `json:"id"`
	Title    *string   `json:"title"`
	Icon     textValue `json:"icon"`
	Logo     textValue `json:"logo"`
	SVGLogo  textValue `json:"svgLogo"`
	Category textValue `json:"category"`
	Region   textValue `json:"region"`
	Lang     textValue `json:"lang"`
}

type programRecord struct {
	ID          *idValue        `json:"id"`
	Title       *string         `json:"title"`
	Start       *json.Number    `json:"start"`
	Stop        *json.Number    `json:"stop"`
	URL         textValue       `json:"url"`
	ChannelID   textValue       `json:"channelId"`
	Category    textValue       `json:"category"`
	Desc        textValue       `json:"desc"`
	ProdYear    textValue       `json:"prodYear"`
	ProdCountry textValue       `json:"prodCountry"`
	Teaser      textValue       `json:"teaser"`
	SeriesID    textValue       `json:"series_id"`
	Series      json.RawMessage `json:"series"`
}

type dayViewRecord struct {
	ID       *idValue        `json:"id"`
	Programs []programRecord `json:"programs"`
}

func (r channelRecord) toDomain() (domain.Channel, error) {
	if r.ID == nil || *r.ID == "" {
		return domain.Channel{}, fmt.Errorf("%w: channel record without id", domain.ErrMalformedResponse)
	}
	if r.Title == nil || strings.TrimSpace(*r.Title) == "" {
		return domain.Channel{}, fmt.Errorf("%w: channel %s has no title", domain.ErrMalformedResponse, *r.ID)
	}

	return domain.Channel{
		ID:       string(*r.ID),
		Title:    *r.Title,
		Icon:     string(r.Icon),
		Logo:     string(r.Logo),
		SVGLogo:  string(r.SVGLogo),
		Category: string(r.Category),
		Region:   string(r.Region),
		Language: string(r.Lang),
	}, nil
}

// toDomain converts a program record. channelID, when set, overrides the record's own
// channel reference (day views list programs under their channel).
func (r programRecord) toDomain(loc *time.Location, channelID string) (domain.Program, error) {
	if r.ID == nil || *r.ID == "" {
		return domain.Program{}, fmt.Errorf("%w: program record without id", domain.ErrMalformedResponse)
	}
	if r.Title == nil || strings.TrimSpace(*r.Title) == "" {
		return domain.Program{}, fmt.Errorf("%w: program %s has no title", domain.ErrMalformedResponse, *r.ID)
	}

	start, err := epoch(r.Start, loc)
	if err != nil {
		return domain.Program{}, fmt.Errorf("%w: program %s start: %v", domain.ErrMalformedResponse, *r.ID, err)
	}
	stop, err := epoch(r.Stop, loc)
	if err != nil {
		return domain.Program{}, fmt.Errorf("%w: program %s stop: %v", domain.ErrMalformedResponse, *r.ID, err)
	}
	if stop.Before(start) {
		return domain.Program{}, fmt.Errorf("%w: program %s stops before it starts", domain.ErrMalformedResponse, *r.ID)
	}

	if channelID == "" {
		channelID = string(r.ChannelID)
	}

	p := domain.Program{
		ID:                string(*r.ID),
		Title:             *r.Title,
		Start:             start,
		Stop:              stop,
		ChannelID:         channelID,
		URL:               string(r.URL),
		Category:          string(r.Category),
		Description:       string(r.Desc),
		ProductionCountry: string(r.ProdCountry),
		Teaser:            string(r.Teaser),
		SeriesID:          string(r.SeriesID),
	}
	if year, err := strconv.Atoi(string(r.ProdYear)); err == nil {
		p.ProductionYear = year
	}
	if len(r.Series) > 0 && r.Series[0] == '{' {
		var info map[string]any
		if err := json.Unmarshal(r.Series, &info); err == nil {
			p.SeriesInfo = info
		}
	}
	return p, nil
}

func epoch(n *json.Number, loc *time.Location) (time.Time, error) {
	if n == nil {
		return time.Time{}, fmt.Errorf("missing")
	}
	if sec, err := n.Int64(); err == nil {
		return time.Unix(sec, 0).In(loc), nil
	}
	f, err := n.Float64()
	if err != nil {
		return time.Time{}, fmt.Errorf("not a number: %q", n.String())
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).In(loc), nil
}

func decodeChannels(body []byte) ([]domain.Channel, error) {
	var records []channelRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: channels: %v", domain.ErrMalformedResponse, err)
	}

	channels := make([]domain.Channel, 0, len(records))
	for _, r := range records {
		ch, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

func decodeDayViews(body []byte, loc *time.Location) ([]domain.DayView, error) {
	var records []dayViewRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: day view: %v", domain.ErrMalformedResponse, err)
	}

	views := make([]domain.DayView, 0, len(records))
	for _, r := range records {
		if r.ID == nil || *r.ID == "" {
			return nil, fmt.Errorf("%w: day view record without channel id", domain.ErrMalformedResponse)
		}
		channelID := string(*r.ID)

		programs := make([]domain.Program, 0, len(r.Programs))
		for _, pr := range r.Programs {
			p, err := pr.toDomain(loc, channelID)
			if err != nil {
				return nil, fmt.Errorf("channel %s: %w", channelID, err)
			}
			programs = append(programs, p)
		}
		views = append(views, domain.DayView{ChannelID: channelID, Programs: programs})
	}
	return views, nil
}

func decodeProgram(body []byte, loc *time.Location, channelID string) (domain.Program, error) {
	var r programRecord
	if err := json.Unmarshal(body, &r); err != nil {
		return domain.Program{}, fmt.Errorf("%w: program: %v", domain.ErrMalformedResponse, err)
	}
	p, err := r.toDomain(loc, "")
	if err != nil {
		return domain.Program{}, err
	}
	if p.ChannelID == "" {
		p.ChannelID = channelID
	}
	return p, nil
}
