package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout of GP dates sent by the API
const DateLayout = "2006-01-02"

// ClockLayout is the normalized layout of GP start times read in the display location
const ClockLayout = "15:04:05"

// UTCClockLayout is the normalized layout of GP start times the API sent with a zone
const UTCClockLayout = "15:04:05Z"

// Track represents the circuit hosting a Grand Prix
type Track struct {
	ID             int    `json:"id_api_tracks"`
	CountryName    string `json:"country_name"`
	TrackName      string `json:"track_name"`
	PictureCountry string `json:"picture_country,omitempty"`
	PictureTrack   string `json:"picture_track,omitempty"`
}

// GP represents a Grand Prix race event
type GP struct {
	ID     string `json:"id_api_races" validate:"required"`
	Season string `json:"season"`
	Date   string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time   string `json:"time"`
	Track  Track  `json:"track"`
}

// UnmarshalJSON accepts the loosely typed id and time fields of the API.
// The id may be a string or a number. The time may be a clock ("14:00", "14:00:00Z"),
// an RFC 3339 timestamp or epoch milliseconds. Zoned times are normalized to the UTC
// clock HH:MM:SSZ, and absolute instants also set Date to their UTC calendar day.
// Bare clocks stay HH:MM:SS and are read in the display location.
func (g *GP) UnmarshalJSON(data []byte) error {
	type gpAlias GP
	var raw struct {
		gpAlias
		ID   json.RawMessage `json:"id_api_races"`
		Time json.RawMessage `json:"time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*g = GP(raw.gpAlias)

	id, err := flexString(raw.ID)
	if err != nil {
		return fmt.Errorf("gp id: %w", err)
	}
	g.ID = id

	// Timestamps sent in the date field are reduced to their calendar day
	if len(g.Date) > len(DateLayout) {
		if ts, err := time.Parse(time.RFC3339, g.Date); err == nil {
			g.Date = ts.UTC().Format(DateLayout)
		}
	}

	clock, day, err := normalizeClock(raw.Time)
	if err != nil {
		return fmt.Errorf("gp %s time: %w", g.ID, err)
	}
	g.Time = clock
	if day != "" {
		g.Date = day
	}

	return nil
}

// StartsAt returns the race start. Bare clocks are interpreted in loc (UTC when nil).
func (g *GP) StartsAt(loc *time.Location) (time.Time, error) {
	return ParseStart(g.Date, g.Time, loc)
}

// IsPast reports whether the race has started at now. Races with an unknown start are past.
func (g *GP) IsPast(now time.Time, loc *time.Location) bool {
	start, err := g.StartsAt(loc)
	if err != nil {
		return true
	}
	return !start.After(now)
}

// Label returns a short human readable description of the race
func (g *GP) Label() string {
	if g.Track.TrackName == "" {
		return "Grand Prix #" + g.ID
	}
	return fmt.Sprintf("%s Grand Prix (%s)", g.Track.CountryName, g.Track.TrackName)
}

// ParseStart combines a YYYY-MM-DD date with a clock. The clock may be HH:MM, HH:MM:SS
// (optionally fractional, optionally suffixed with Z) or a full RFC 3339 timestamp, in
// which case the date argument is ignored.
func ParseStart(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return time.Time{}, fmt.Errorf("empty start time")
	}

	if ts, err := time.Parse(time.RFC3339, clock); err == nil {
		return ts, nil
	}

	if strings.HasSuffix(clock, "Z") {
		loc = time.UTC
		clock = strings.TrimSuffix(clock, "Z")
	}

	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	for _, layout := range []string{"15:04:05.999999999", "15:04"} {
		if c, err := time.Parse(layout, clock); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				c.Hour(), c.Minute(), c.Second(), c.Nanosecond(), loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid start time %q", clock)
}

// flexString decodes a JSON string or number into a string
func flexString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", string(raw))
	}
	return n.String(), nil
}

// normalizeClock turns the loosely typed time field into HH:MM:SS, suffixed with Z when
// the value carried a zone. For absolute instants it also returns their UTC day.
func normalizeClock(raw json.RawMessage) (clock, day string, err error) {
	value, err := flexString(raw)
	if err != nil {
		return "", "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", "", nil
	}

	instant := func(ts time.Time) (string, string, error) {
		ts = ts.UTC()
		return ts.Format(UTCClockLayout), ts.Format(DateLayout), nil
	}

	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return instant(time.UnixMilli(ms))
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return instant(ts)
	}

	layout := ClockLayout
	bare := strings.TrimSuffix(value, "Z")
	if bare != value {
		layout = UTCClockLayout
	}
	for _, in := range []string{"15:04:05.999999999", "15:04"} {
		if c, err := time.Parse(in, bare); err == nil {
			return c.Format(layout), "", nil
		}
	}

	return "", "", fmt.Errorf("unrecognized time %q", value)
}

// Pilote represents a driver
type Pilote struct {
	ID      int    `json:"id_api_pilotes" validate:"required"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	Acronym string `json:"name_acronym,omitempty"`
}

// Ecurie represents a constructor team
type Ecurie struct {
	ID    int    `json:"id_api_ecuries"`
	Name  string `json:"name"`
	Logo  string `json:"logo,omitempty"`
	Color string `json:"color,omitempty"`
}
