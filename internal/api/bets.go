package api

import (
	"context"
	"fmt"

	"github.com/yourusername/p10-paddock/internal/models"
)

// MyBets lists the caller's bets across all races
func (c *Client) MyBets(ctx context.Context) ([]models.Bet, error) {
	var bets []models.Bet
	if err := c.Do(ctx, opGetMyBets, nil, &bets); err != nil {
		return nil, err
	}
	return bets, nil
}

// CreateBet places a new bet
func (c *Client) CreateBet(ctx context.Context, sel models.BetSelection) (*models.Bet, error) {
	if err := c.validate.Struct(sel); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var bet models.Bet
	err := c.Do(ctx, opCreateBetSelection, map[string]interface{}{
		"gpId":        sel.RaceID,
		"piloteP10Id": sel.P10ID,
		"piloteDNFId": sel.DNFID,
	}, &bet)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

// UpdateBet changes the drivers of an existing bet. A nil id leaves that pick unchanged.
func (c *Client) UpdateBet(ctx context.Context, betID int, p10ID, dnfID *int) (*models.Bet, error) {
	if betID <= 0 {
		return nil, fmt.Errorf("%w: bet id %d", models.ErrInvalidID, betID)
	}

	vars := map[string]interface{}{"betId": betID}
	if p10ID != nil {
		vars["piloteP10Id"] = *p10ID
	}
	if dnfID != nil {
		vars["piloteDNFId"] = *dnfID
	}

	var bet models.Bet
	if err := c.Do(ctx, opUpdateBetSelection, vars, &bet); err != nil {
		return nil, err
	}
	return &bet, nil
}

// DeleteBet removes a bet. The response body is ignored once the server has answered
// without error.
func (c *Client) DeleteBet(ctx context.Context, betID int) error {
	if betID <= 0 {
		return fmt.Errorf("%w: bet id %d", models.ErrInvalidID, betID)
	}
	return c.Do(ctx, opDeleteBetSelection, map[string]interface{}{"betId": betID}, nil)
}
