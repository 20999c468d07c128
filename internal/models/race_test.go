package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUnmarshalTimeFormats(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantID   string
		wantTime string
	}{
		{
			name:     "clock with seconds",
			payload:  `{"id_api_races":"1234","date":"2025-05-25","time":"13:00:00"}`,
			wantID:   "1234",
			wantTime: "13:00:00",
		},
		{
			name:     "clock with zulu suffix",
			payload:  `{"id_api_races":"1234","date":"2025-05-25","time":"13:00:00Z"}`,
			wantID:   "1234",
			wantTime: "13:00:00Z",
		},
		{
			name:     "short clock",
			payload:  `{"id_api_races":"1234","date":"2025-05-25","time":"13:00"}`,
			wantID:   "1234",
			wantTime: "13:00:00",
		},
		{
			name:     "rfc3339 timestamp",
			payload:  `{"id_api_races":"1234","date":"2025-05-25","time":"2025-05-25T15:00:00+02:00"}`,
			wantID:   "1234",
			wantTime: "13:00:00Z",
		},
		{
			name:     "epoch milliseconds as number",
			payload:  `{"id_api_races":1748131200000,"date":"2025-05-25","time":1748178000000}`,
			wantID:   "1748131200000",
			wantTime: "13:00:00Z",
		},
		{
			name:     "missing time",
			payload:  `{"id_api_races":"99","date":"2025-05-25"}`,
			wantID:   "99",
			wantTime: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gp GP
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &gp))
			assert.Equal(t, tt.wantID, gp.ID)
			assert.Equal(t, tt.wantTime, gp.Time)
			assert.Equal(t, "2025-05-25", gp.Date)
		})
	}
}

func TestGPStartInstant(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	tests := []struct {
		name      string
		payload   string
		loc       *time.Location
		wantStart time.Time
		wantDate  string
	}{
		{
			name:      "zulu clock read from paris",
			payload:   `{"id_api_races":"1","date":"2025-05-25","time":"13:00:00Z"}`,
			loc:       paris,
			wantStart: time.Date(2025, 5, 25, 13, 0, 0, 0, time.UTC),
			wantDate:  "2025-05-25",
		},
		{
			name:      "rfc3339 with offset read from paris",
			payload:   `{"id_api_races":"1","date":"2025-05-25","time":"2025-05-25T15:00:00+02:00"}`,
			loc:       paris,
			wantStart: time.Date(2025, 5, 25, 13, 0, 0, 0, time.UTC),
			wantDate:  "2025-05-25",
		},
		{
			name:      "epoch milliseconds read from paris",
			payload:   `{"id_api_races":"1","date":"2025-05-25","time":1748178000000}`,
			loc:       paris,
			wantStart: time.Date(2025, 5, 25, 13, 0, 0, 0, time.UTC),
			wantDate:  "2025-05-25",
		},
		{
			name:      "bare clock is local to the display location",
			payload:   `{"id_api_races":"1","date":"2025-05-25","time":"15:00:00"}`,
			loc:       paris,
			wantStart: time.Date(2025, 5, 25, 13, 0, 0, 0, time.UTC),
			wantDate:  "2025-05-25",
		},
		{
			name:      "offset instant on the previous utc day",
			payload:   `{"id_api_races":"1","date":"2025-05-25","time":"2025-05-25T01:00:00+02:00"}`,
			loc:       time.UTC,
			wantStart: time.Date(2025, 5, 24, 23, 0, 0, 0, time.UTC),
			wantDate:  "2025-05-24",
		},
		{
			name:      "offset instant on the previous utc day read from paris",
			payload:   `{"id_api_races":"1","date":"2025-05-25","time":"2025-05-25T01:00:00+02:00"}`,
			loc:       paris,
			wantStart: time.Date(2025, 5, 24, 23, 0, 0, 0, time.UTC),
			wantDate:  "2025-05-24",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gp GP
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &gp))
			assert.Equal(t, tt.wantDate, gp.Date)

			start, err := gp.StartsAt(tt.loc)
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(start), "got %s, want %s", start.UTC(), tt.wantStart)

			assert.False(t, gp.IsPast(tt.wantStart.Add(-time.Second), tt.loc))
			assert.True(t, gp.IsPast(tt.wantStart, tt.loc))
		})
	}
}

func TestGPUnmarshalRejectsGarbageTime(t *testing.T) {
	var gp GP
	err := json.Unmarshal([]byte(`{"id_api_races":"1","date":"2025-05-25","time":"soon"}`), &gp)
	assert.Error(t, err)
}

func TestGPUnmarshalKeepsTrack(t *testing.T) {
	payload := `{"id_api_races":"7","season":"2025","date":"2025-05-25T00:00:00Z","time":"13:00:00",
		"track":{"id_api_tracks":3,"country_name":"Monaco","track_name":"Monte Carlo"}}`

	var gp GP
	require.NoError(t, json.Unmarshal([]byte(payload), &gp))
	assert.Equal(t, "2025", gp.Season)
	assert.Equal(t, "2025-05-25", gp.Date)
	assert.Equal(t, "Monte Carlo", gp.Track.TrackName)
	assert.Equal(t, "Monaco Grand Prix (Monte Carlo)", gp.Label())
}

func TestParseStart(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	t.Run("bare clock in location", func(t *testing.T) {
		start, err := ParseStart("2025-05-25", "15:00:00", paris)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 5, 25, 13, 0, 0, 0, time.UTC), start.UTC())
	})

	t.Run("zulu clock ignores location", func(t *testing.T) {
		start, err := ParseStart("2025-05-25", "13:00:00Z", paris)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 5, 25, 13, 0, 0, 0, time.UTC), start.UTC())
	})

	t.Run("nil location means utc", func(t *testing.T) {
		start, err := ParseStart("2025-05-25", "13:00", nil)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 5, 25, 13, 0, 0, 0, time.UTC), start)
	})

	t.Run("malformed inputs", func(t *testing.T) {
		for _, in := range [][2]string{
			{"2025-05-25", ""},
			{"2025-05-25", "25:99"},
			{"25/05/2025", "13:00"},
		} {
			_, err := ParseStart(in[0], in[1], nil)
			assert.Error(t, err, "date=%s clock=%s", in[0], in[1])
		}
	})
}

func TestGPIsPast(t *testing.T) {
	gp := GP{ID: "1", Date: "2025-05-25", Time: "13:00:00"}
	before := time.Date(2025, 5, 25, 12, 59, 59, 0, time.UTC)
	after := time.Date(2025, 5, 25, 13, 0, 0, 0, time.UTC)

	assert.False(t, gp.IsPast(before, time.UTC))
	assert.True(t, gp.IsPast(after, time.UTC))

	unknown := GP{ID: "2", Date: "2025-05-25"}
	assert.True(t, unknown.IsPast(before, time.UTC))
}

func TestBetPoints(t *testing.T) {
	var bet Bet
	payload := `{"id":5,"points_p10":"25","points_dnf":"7.5","gp":{"id_api_races":"R1"},
		"pilote_p10":{"id_api_pilotes":11,"name":"A"},"pilote_dnf":{"id_api_pilotes":22,"name":"B"}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &bet))

	assert.Equal(t, "R1", bet.RaceID())
	assert.True(t, bet.IsScored())
	assert.True(t, decimal.RequireFromString("32.5").Equal(bet.TotalPoints()))

	unscored := Bet{ID: 6}
	assert.False(t, unscored.IsScored())
	assert.True(t, unscored.TotalPoints().IsZero())
}
