package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/p10-paddock/internal/models"
)

// GPClassement returns the finishing order of a Grand Prix
func (c *Client) GPClassement(ctx context.Context, gpID string) ([]models.ClassementEntry, error) {
	gpID = strings.TrimSpace(gpID)
	if gpID == "" {
		return nil, fmt.Errorf("%w: empty race id", models.ErrInvalidID)
	}

	var entries []models.ClassementEntry
	if err := c.Do(ctx, opGetClassementByGP, map[string]interface{}{"gpId": gpID}, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LeagueClassement returns the point totals of a league's members
func (c *Client) LeagueClassement(ctx context.Context, leagueID int) ([]models.LeagueStanding, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id %d", models.ErrInvalidID, leagueID)
	}

	var standings []models.LeagueStanding
	if err := c.Do(ctx, opClassementLigue, map[string]interface{}{"leagueId": leagueID}, &standings); err != nil {
		return nil, err
	}
	return standings, nil
}
