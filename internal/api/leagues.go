package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/p10-paddock/internal/models"
)

// JoinRequest identifies a league to join, by id for public leagues or by invite link
type JoinRequest struct {
	LeagueID   int
	SharedLink string
}

// Validate checks that exactly one of LeagueID and SharedLink is set
func (r JoinRequest) Validate() error {
	hasID := r.LeagueID > 0
	hasLink := strings.TrimSpace(r.SharedLink) != ""
	if hasID == hasLink {
		return ErrInvalidJoinRequest
	}
	return nil
}

// MyLeagues lists the leagues the caller belongs to
func (c *Client) MyLeagues(ctx context.Context) ([]models.League, error) {
	var leagues []models.League
	if err := c.Do(ctx, opGetMyLeagues, nil, &leagues); err != nil {
		return nil, err
	}
	return leagues, nil
}

// PublicLeagues lists the leagues anyone may join by id
func (c *Client) PublicLeagues(ctx context.Context) ([]models.League, error) {
	var leagues []models.League
	if err := c.Do(ctx, opGetPublicLeagues, nil, &leagues); err != nil {
		return nil, err
	}
	return leagues, nil
}

// JoinLeague joins a public league by id, or any league by its invite link. Joining by
// id is refused with ErrPrivateLeague when the league is not listed as public.
func (c *Client) JoinLeague(ctx context.Context, req JoinRequest) (*models.League, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	vars := map[string]interface{}{}
	if req.LeagueID > 0 {
		public, err := c.PublicLeagues(ctx)
		if err != nil {
			return nil, err
		}
		if !containsLeague(public, req.LeagueID) {
			return nil, fmt.Errorf("league %d: %w", req.LeagueID, ErrPrivateLeague)
		}
		vars["leagueId"] = req.LeagueID
	} else {
		vars["shared_link"] = strings.TrimSpace(req.SharedLink)
	}

	var league models.League
	if err := c.Do(ctx, opJoinLeague, vars, &league); err != nil {
		return nil, err
	}
	return &league, nil
}

// CreateLeague creates a league owned by the caller
func (c *Client) CreateLeague(ctx context.Context, name string, private bool) (*models.League, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrLeagueNameRequired
	}

	var league models.League
	err := c.Do(ctx, opCreateLeague, map[string]interface{}{
		"name":    name,
		"private": private,
	}, &league)
	if err != nil {
		return nil, err
	}
	return &league, nil
}

// LeagueUsers lists the members of a league
func (c *Client) LeagueUsers(ctx context.Context, leagueID int) ([]models.LeagueMember, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id %d", models.ErrInvalidID, leagueID)
	}

	var members []models.LeagueMember
	if err := c.Do(ctx, opGetLeagueUsers, map[string]interface{}{"leagueId": leagueID}, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func containsLeague(leagues []models.League, id int) bool {
	for _, l := range leagues {
		if l.ID == id {
			return true
		}
	}
	return false
}
