package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/p10-paddock/internal/models"
)

// AllGPs lists every Grand Prix
func (c *Client) AllGPs(ctx context.Context) ([]models.GP, error) {
	var gps []models.GP
	if err := c.Do(ctx, opGetAllGPs, nil, &gps); err != nil {
		return nil, err
	}
	return gps, nil
}

// UpcomingGPs lists the Grand Prix not yet run, optionally restricted to a season
func (c *Client) UpcomingGPs(ctx context.Context, season string) ([]models.GP, error) {
	var vars map[string]interface{}
	if season = strings.TrimSpace(season); season != "" {
		vars = map[string]interface{}{"season": season}
	}

	var gps []models.GP
	if err := c.Do(ctx, opGetGPs, vars, &gps); err != nil {
		return nil, err
	}
	return gps, nil
}

// PastGPs lists the Grand Prix already run
func (c *Client) PastGPs(ctx context.Context) ([]models.GP, error) {
	var gps []models.GP
	if err := c.Do(ctx, opGetPastGPs, nil, &gps); err != nil {
		return nil, err
	}
	return gps, nil
}

// NextGP returns the next Grand Prix, models.ErrNotFound when the season is over
func (c *Client) NextGP(ctx context.Context) (*models.GP, error) {
	var gp *models.GP
	if err := c.Do(ctx, opGetNextGP, nil, &gp); err != nil {
		return nil, err
	}
	if gp == nil {
		return nil, fmt.Errorf("getNextGP: %w", models.ErrNotFound)
	}
	return gp, nil
}

// GP fetches one Grand Prix by id
func (c *Client) GP(ctx context.Context, id string) (*models.GP, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty race id", models.ErrInvalidID)
	}

	var gp *models.GP
	if err := c.Do(ctx, opGetGP, map[string]interface{}{"id": id}, &gp); err != nil {
		return nil, err
	}
	if gp == nil {
		return nil, fmt.Errorf("gp %s: %w", id, models.ErrNotFound)
	}
	return gp, nil
}

// Pilotes lists the drivers that can be picked in a bet
func (c *Client) Pilotes(ctx context.Context) ([]models.Pilote, error) {
	var pilotes []models.Pilote
	if err := c.Do(ctx, opGetPilotes, nil, &pilotes); err != nil {
		return nil, err
	}
	return pilotes, nil
}
