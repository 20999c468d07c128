// Package standings orders and ranks Grand Prix results and league tables.
package standings

import (
	"sort"
	"strings"

	"github.com/yourusername/p10-paddock/internal/models"
)

// Podium marks for the first three places
const (
	MarkGold   = "gold"
	MarkSilver = "silver"
	MarkBronze = "bronze"
)

// SortClassement orders a Grand Prix result by finishing position. Entries without a
// position (zero) go last, keeping the server order among themselves.
func SortClassement(entries []models.ClassementEntry) []models.ClassementEntry {
	out := append([]models.ClassementEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Position, out[j].Position
		switch {
		case a <= 0:
			return false
		case b <= 0:
			return true
		default:
			return a < b
		}
	})
	return out
}

// PodiumMark returns the podium mark of a finishing position, empty outside the top three
func PodiumMark(position int) string {
	switch position {
	case 1:
		return MarkGold
	case 2:
		return MarkSilver
	case 3:
		return MarkBronze
	default:
		return ""
	}
}

// DNFs returns the entries flagged as retired
func DNFs(entries []models.ClassementEntry) []models.ClassementEntry {
	out := make([]models.ClassementEntry, 0)
	for _, e := range entries {
		if e.IsDNF {
			out = append(out, e)
		}
	}
	return out
}

// AtPosition returns the entry classified at pos, nil when absent
func AtPosition(entries []models.ClassementEntry, pos int) *models.ClassementEntry {
	for i := range entries {
		if entries[i].Position == pos {
			e := entries[i]
			return &e
		}
	}
	return nil
}

// RankLeague orders a league table by points, highest first, breaking ties by name,
// and assigns competition ranks: equal points share a rank and the next rank skips
// (1, 2, 2, 4).
func RankLeague(rows []models.LeagueStanding) []models.LeagueStanding {
	out := append([]models.LeagueStanding(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Points.Cmp(out[j].Points); c != 0 {
			return c > 0
		}
		return strings.ToLower(out[i].User.FullName()) < strings.ToLower(out[j].User.FullName())
	})

	for i := range out {
		if i > 0 && out[i].Points.Equal(out[i-1].Points) {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}

// FilterLeague keeps the rows whose member name or email contains term, ignoring case.
// Ranks computed beforehand are kept.
func FilterLeague(rows []models.LeagueStanding, term string) []models.LeagueStanding {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}

	out := make([]models.LeagueStanding, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.User.FullName()), term) ||
			strings.Contains(strings.ToLower(row.User.Email), term) {
			out = append(out, row)
		}
	}
	return out
}

// RankOf returns the rank of userID in a ranked table, 0 when absent
func RankOf(rows []models.LeagueStanding, userID string) int {
	for _, row := range rows {
		if row.User.ID == userID {
			return row.Rank
		}
	}
	return 0
}
