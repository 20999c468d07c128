// Package betting reconciles the caller's bets with a race and drives the bet editor.
package betting

import "github.com/yourusername/p10-paddock/internal/models"

// Reconciliation is the caller's existing bet for one race, if any, and the driver
// selections it implies for the edit buffer
type Reconciliation struct {
	Existing   *models.Bet
	InitialP10 *int
	InitialDNF *int
}

// Reconcile finds the bet placed on raceID. The first match in list order wins, so
// duplicates returned by the server never cause a failure. No match yields all nils.
func Reconcile(bets []models.Bet, raceID string) Reconciliation {
	for i := range bets {
		if bets[i].RaceID() != raceID {
			continue
		}

		existing := bets[i]
		p10 := existing.PiloteP10.ID
		dnf := existing.PiloteDNF.ID
		return Reconciliation{
			Existing:   &existing,
			InitialP10: &p10,
			InitialDNF: &dnf,
		}
	}
	return Reconciliation{}
}
