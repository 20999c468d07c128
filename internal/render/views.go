package render

import (
	"fmt"
	"strconv"
	"time"

	"github.com/yourusername/p10-paddock/internal/countdown"
	"github.com/yourusername/p10-paddock/internal/models"
	"github.com/yourusername/p10-paddock/internal/races"
	"github.com/yourusername/p10-paddock/internal/standings"
)

// RaceRow is one Grand Prix as printed by the races commands
type RaceRow struct {
	ID       string `json:"id" yaml:"id"`
	Season   string `json:"season,omitempty" yaml:"season,omitempty"`
	Date     string `json:"date" yaml:"date"`
	Time     string `json:"time" yaml:"time"`
	Start    string `json:"start" yaml:"start"`
	When     string `json:"when" yaml:"when"`
	Track    string `json:"track" yaml:"track"`
	Country  string `json:"country" yaml:"country"`
	Bettable bool   `json:"bettable" yaml:"bettable"`
}

// Races builds the race list view
func Races(title string, gps []models.GP, now time.Time, loc *time.Location) ([]RaceRow, *Table) {
	rows := make([]RaceRow, 0, len(gps))
	tbl := NewTable(title, "ID", "DATE", "START", "WHEN", "TRACK", "COUNTRY", "BETS")
	tbl.Empty = "No races found."

	for _, gp := range gps {
		row := RaceRow{
			ID:       gp.ID,
			Season:   gp.Season,
			Date:     gp.Date,
			Time:     gp.Time,
			Start:    races.FormatStart(gp, loc),
			When:     races.RelativeDay(gp.Date, now, loc),
			Track:    gp.Track.TrackName,
			Country:  gp.Track.CountryName,
			Bettable: races.Bettable(gp, now, loc),
		}
		rows = append(rows, row)

		bets := "closed"
		if row.Bettable {
			bets = "open"
		}
		tbl.AddRow(row.ID, races.FormatDate(row.Date), row.Start, row.When, row.Track, row.Country, bets)
	}
	return rows, tbl
}

// NextRaceView is the next Grand Prix with its countdown
type NextRaceView struct {
	Race      RaceRow          `json:"race" yaml:"race"`
	Countdown countdown.Result `json:"countdown" yaml:"countdown"`
}

// NextRace builds the next race view
func NextRace(gp models.GP, remaining countdown.Result, now time.Time, loc *time.Location) (NextRaceView, *Table) {
	rows, _ := Races("", []models.GP{gp}, now, loc)
	view := NextRaceView{Race: rows[0], Countdown: remaining}

	tbl := NewTable("Next Grand Prix", "TRACK", "COUNTRY", "START", "COUNTDOWN")
	tbl.AddRow(view.Race.Track, view.Race.Country, view.Race.Start, remaining.String())
	return view, tbl
}

// CountdownLine formats a one-line countdown for a race
func CountdownLine(gp models.GP, remaining countdown.Result) string {
	return fmt.Sprintf("%s (%s): %s", gp.Track.TrackName, gp.Track.CountryName, remaining.String())
}

// BetRow is one bet as printed by the bet commands
type BetRow struct {
	ID        int    `json:"id" yaml:"id"`
	RaceID    string `json:"race_id" yaml:"race_id"`
	Race      string `json:"race" yaml:"race"`
	P10       string `json:"p10" yaml:"p10"`
	DNF       string `json:"dnf" yaml:"dnf"`
	PointsP10 string `json:"points_p10,omitempty" yaml:"points_p10,omitempty"`
	PointsDNF string `json:"points_dnf,omitempty" yaml:"points_dnf,omitempty"`
	Total     string `json:"total" yaml:"total"`
	Scored    bool   `json:"scored" yaml:"scored"`
}

// Bets builds the bet list view
func Bets(title string, bets []models.Bet) ([]BetRow, *Table) {
	rows := make([]BetRow, 0, len(bets))
	tbl := NewTable(title, "ID", "RACE", "P10", "DNF", "POINTS")
	tbl.Empty = "No bet placed."

	for i := range bets {
		b := &bets[i]
		row := BetRow{
			ID:     b.ID,
			RaceID: b.RaceID(),
			Race:   b.GP.Label(),
			P10:    b.PiloteP10.Name,
			DNF:    b.PiloteDNF.Name,
			Total:  b.TotalPoints().String(),
			Scored: b.IsScored(),
		}
		if b.PointsP10 != nil {
			row.PointsP10 = b.PointsP10.String()
		}
		if b.PointsDNF != nil {
			row.PointsDNF = b.PointsDNF.String()
		}
		rows = append(rows, row)

		points := "pending"
		if row.Scored {
			points = row.Total
		}
		tbl.AddRow(strconv.Itoa(row.ID), row.Race, row.P10, row.DNF, points)
	}
	return rows, tbl
}

// PiloteRow is one driver available for betting
type PiloteRow struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Acronym string `json:"acronym,omitempty" yaml:"acronym,omitempty"`
}

// Pilotes builds the driver list view
func Pilotes(pilotes []models.Pilote) ([]PiloteRow, *Table) {
	rows := make([]PiloteRow, 0, len(pilotes))
	tbl := NewTable("Drivers", "ID", "CODE", "NAME")
	for _, p := range pilotes {
		rows = append(rows, PiloteRow{ID: p.ID, Name: p.Name, Acronym: p.Acronym})
		tbl.AddRow(strconv.Itoa(p.ID), p.Acronym, p.Name)
	}
	return rows, tbl
}

// LeagueRow is one league as printed by the leagues commands
type LeagueRow struct {
	ID         int    `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Visibility string `json:"visibility" yaml:"visibility"`
	InviteLink string `json:"invite_link,omitempty" yaml:"invite_link,omitempty"`
	Active     bool   `json:"active" yaml:"active"`
}

// Leagues builds the league list view. Invite links are shown for private leagues only.
func Leagues(title string, leagues []models.League) ([]LeagueRow, *Table) {
	rows := make([]LeagueRow, 0, len(leagues))
	tbl := NewTable(title, "ID", "NAME", "VISIBILITY", "INVITE LINK")
	tbl.Empty = "No leagues found."

	for i := range leagues {
		l := &leagues[i]
		row := LeagueRow{
			ID:         l.ID,
			Name:       l.Name,
			Visibility: l.Visibility(),
			InviteLink: l.InviteLink(),
			Active:     l.Active,
		}
		rows = append(rows, row)
		tbl.AddRow(strconv.Itoa(row.ID), row.Name, row.Visibility, row.InviteLink)
	}
	return rows, tbl
}

// MemberRow is one league member
type MemberRow struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
}

// Members builds the league member view
func Members(members []models.LeagueMember) ([]MemberRow, *Table) {
	rows := make([]MemberRow, 0, len(members))
	tbl := NewTable("Members", "NAME", "ROLE")
	tbl.Empty = "No members yet."

	for i := range members {
		m := &members[i]
		rows = append(rows, MemberRow{ID: m.ID, Name: m.FullName(), Role: m.Role})
		tbl.AddRow(m.FullName(), m.Role)
	}
	return rows, tbl
}

// ClassementRow is one driver's line of a Grand Prix result
type ClassementRow struct {
	Position int    `json:"position" yaml:"position"`
	Driver   string `json:"driver" yaml:"driver"`
	Team     string `json:"team" yaml:"team"`
	DNF      bool   `json:"dnf" yaml:"dnf"`
	Podium   string `json:"podium,omitempty" yaml:"podium,omitempty"`
}

// Classement builds the Grand Prix result view, sorted by position
func Classement(entries []models.ClassementEntry) ([]ClassementRow, *Table) {
	sorted := standings.SortClassement(entries)
	rows := make([]ClassementRow, 0, len(sorted))
	tbl := NewTable("Grand Prix classification", "POS", "DRIVER", "TEAM", "")
	tbl.Empty = "No classification for this Grand Prix."

	for _, e := range sorted {
		row := ClassementRow{
			Position: e.Position,
			Driver:   e.Pilote.Name,
			Team:     e.Ecurie.Name,
			DNF:      e.IsDNF,
		}
		if !e.IsDNF {
			row.Podium = standings.PodiumMark(e.Position)
		}
		rows = append(rows, row)

		flag := row.Podium
		if row.DNF {
			flag = "DNF"
		}
		tbl.AddRow(strconv.Itoa(row.Position), row.Driver, row.Team, flag)
	}
	return rows, tbl
}

// StandingRow is one member's line of a league table
type StandingRow struct {
	Rank   int    `json:"rank" yaml:"rank"`
	UserID string `json:"user_id" yaml:"user_id"`
	Name   string `json:"name" yaml:"name"`
	Points string `json:"points" yaml:"points"`
}

// LeagueTable builds the league standings view from ranked rows
func LeagueTable(ranked []models.LeagueStanding) ([]StandingRow, *Table) {
	rows := make([]StandingRow, 0, len(ranked))
	tbl := NewTable("League standings", "RANK", "NAME", "POINTS")
	tbl.Empty = "No standings for this league."

	for i := range ranked {
		s := &ranked[i]
		row := StandingRow{
			Rank:   s.Rank,
			UserID: s.User.ID,
			Name:   s.User.FullName(),
			Points: s.Points.String(),
		}
		rows = append(rows, row)
		tbl.AddRow(strconv.Itoa(row.Rank), row.Name, row.Points+" pts")
	}
	return rows, tbl
}

// ProfileView is the caller's profile
type ProfileView struct {
	ID     string `json:"id" yaml:"id"`
	Email  string `json:"email" yaml:"email"`
	Name   string `json:"name" yaml:"name"`
	Role   string `json:"role,omitempty" yaml:"role,omitempty"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// Profile builds the profile view
func Profile(u *models.User) (ProfileView, *Table) {
	view := ProfileView{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.FullName(),
		Role:   u.Role,
		Avatar: u.AvatarURL(),
	}
	tbl := NewTable("Profile", "FIELD", "VALUE")
	tbl.AddRow("Name", view.Name)
	tbl.AddRow("Email", view.Email)
	if view.Role != "" {
		tbl.AddRow("Role", view.Role)
	}
	if view.Avatar != "" {
		tbl.AddRow("Avatar", view.Avatar)
	}
	return view, tbl
}
