package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// League is a named group of users whose bets are ranked together
type League struct {
	ID         int     `json:"id" validate:"required"`
	Name       string  `json:"name"`
	Private    bool    `json:"private"`
	SharedLink string  `json:"shared_link,omitempty"`
	Active     bool    `json:"active"`
	AvatarID   *int    `json:"id_avatar,omitempty"`
	Avatar     *Avatar `json:"avatar,omitempty"`
}

// Visibility returns "private" or "public"
func (l *League) Visibility() string {
	if l.Private {
		return "private"
	}
	return "public"
}

// InviteLink returns the shared link of a private league, empty for public ones
func (l *League) InviteLink() string {
	if !l.Private {
		return ""
	}
	return l.SharedLink
}

// LeagueMember is a user listed as a member of a league
type LeagueMember struct {
	ID        string `json:"id" validate:"required"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Role      string `json:"role"`
}

// FullName returns "Firstname Lastname"
func (m *LeagueMember) FullName() string {
	return strings.TrimSpace(m.Firstname + " " + m.Lastname)
}

// LeagueStanding is one user's line in a league ranking
type LeagueStanding struct {
	User   User            `json:"user"`
	Points decimal.Decimal `json:"totalPoints"`
	Rank   int             `json:"-"`
}

// ClassementEntry is one driver's line in a Grand Prix result
type ClassementEntry struct {
	Position int    `json:"position"`
	IsDNF    bool   `json:"isDNF"`
	Pilote   Pilote `json:"pilote"`
	Ecurie   Ecurie `json:"ecurie"`
}
