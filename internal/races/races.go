// Package races filters, searches and formats the Grand Prix calendar.
package races

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yourusername/p10-paddock/internal/models"
)

// FeaturedCount is the number of upcoming races shown on the home view
const FeaturedCount = 3

// Filter selects which part of the calendar to list
type Filter string

const (
	FilterAll      Filter = "all"
	FilterUpcoming Filter = "upcoming"
	FilterPast     Filter = "past"
)

// ParseFilter validates a filter name, empty meaning all
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterUpcoming, FilterPast:
		return f, nil
	default:
		return "", fmt.Errorf("unknown race filter %q: use all, upcoming or past", s)
	}
}

// Search keeps the races whose track or country name contains term, ignoring case.
// An empty term keeps everything.
func Search(gps []models.GP, term string) []models.GP {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return gps
	}

	out := make([]models.GP, 0, len(gps))
	for _, gp := range gps {
		if strings.Contains(strings.ToLower(gp.Track.TrackName), term) ||
			strings.Contains(strings.ToLower(gp.Track.CountryName), term) {
			out = append(out, gp)
		}
	}
	return out
}

// Select applies f to gps using the local start time of each race
func Select(gps []models.GP, f Filter, now time.Time, loc *time.Location) []models.GP {
	if f == FilterAll || f == "" {
		return gps
	}

	out := make([]models.GP, 0, len(gps))
	for i := range gps {
		past := gps[i].IsPast(now, loc)
		if (f == FilterPast) == past {
			out = append(out, gps[i])
		}
	}
	return out
}

// SortByStart orders races by start time, unparseable starts last
func SortByStart(gps []models.GP, loc *time.Location) []models.GP {
	out := append([]models.GP(nil), gps...)
	sort.SliceStable(out, func(i, j int) bool {
		a, errA := out[i].StartsAt(loc)
		b, errB := out[j].StartsAt(loc)
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		default:
			return a.Before(b)
		}
	})
	return out
}

// Featured returns the first n races that have not started yet, in calendar order
func Featured(gps []models.GP, n int, now time.Time, loc *time.Location) []models.GP {
	upcoming := SortByStart(Select(gps, FilterUpcoming, now, loc), loc)
	if n >= 0 && len(upcoming) > n {
		upcoming = upcoming[:n]
	}
	return upcoming
}

// Bettable reports whether bets may still be placed on gp
func Bettable(gp models.GP, now time.Time, loc *time.Location) bool {
	return !gp.IsPast(now, loc)
}

// Find returns the race with id, or models.ErrNotFound
func Find(gps []models.GP, id string) (*models.GP, error) {
	for i := range gps {
		if gps[i].ID == id {
			gp := gps[i]
			return &gp, nil
		}
	}
	return nil, fmt.Errorf("race %s: %w", id, models.ErrNotFound)
}
