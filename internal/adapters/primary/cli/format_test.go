package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirkegaard/tvtid-go/internal/domain"
)

func TestWriteLineup_PadsByRunes(t *testing.T) {
	current := domain.Program{Title: "Nyheder", Start: at(2, 10, 0), Stop: at(2, 10, 30)}
	rows := []domain.NowPlaying{
		{Channel: domain.Channel{Title: "TV 2 Øst"}, Partition: domain.Partition{Current: &current}},
		{Channel: domain.Channel{Title: "DR1"}, Partition: domain.Partition{Current: &current}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeLineup(&buf, rows, 3, time.UTC))
	assert.Equal(t, "TV 2 Øst [10:00] Nyheder\nDR1      [10:00] Nyheder\n", buf.String())
}

func TestWriteLineup_NothingPlaying(t *testing.T) {
	rows := []domain.NowPlaying{{Channel: domain.Channel{Title: "DR1"}}}

	var buf bytes.Buffer
	require.NoError(t, writeLineup(&buf, rows, 3, time.UTC))
	assert.Equal(t, "Nothing is currently playing\n", buf.String())
}

func TestWriteDay_Empty(t *testing.T) {
	sch, err := domain.NewSchedule(domain.Channel{Title: "DR2"}, at(1, 0, 0), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeDay(&buf, sch, time.UTC))
	assert.Equal(t, "Schedule for: DR2\nDate: 2024-03-01\n\nNo programs scheduled\n", buf.String())
}

func TestWriteProgram_UsesLocation(t *testing.T) {
	cph, err := time.LoadLocation("Europe/Copenhagen")
	require.NoError(t, err)
	p := domain.Program{Title: "Borgen", ChannelID: "1", Start: at(2, 19, 0), Stop: at(2, 20, 0), Teaser: "Politisk drama"}

	var buf bytes.Buffer
	require.NoError(t, writeProgram(&buf, p, cph))
	assert.Equal(t, "Borgen\nChannel: 1\nTime: 2024-03-02 20:00-21:00 (60 min)\n\nPolitisk drama\n", buf.String())
}
