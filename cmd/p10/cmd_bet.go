package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/yourusername/p10-paddock/internal/betting"
	"github.com/yourusername/p10-paddock/internal/models"
	"github.com/yourusername/p10-paddock/internal/render"
)

func newBetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bet",
		Short: "Place, change or remove your bets",
	}
	cmd.AddCommand(
		newBetListCmd(a),
		newBetShowCmd(a),
		newBetPlaceCmd(a),
		newBetDeleteCmd(a),
	)
	return cmd
}

// loadEditor fetches the race and reconciles the caller's bets on it
func (a *app) loadEditor(ctx context.Context, raceID string) (*betting.Editor, error) {
	gp, err := a.client.GP(ctx, raceID)
	if err != nil {
		return nil, a.apiError(err)
	}

	editor := betting.NewEditor(a.client, *gp,
		betting.WithLocation(a.loc),
		betting.WithEditorClock(a.now),
		betting.WithActivity(a.activity),
		betting.WithEditorLogger(a.log),
	)
	if _, err := editor.Load(ctx); err != nil {
		return nil, a.apiError(err)
	}
	return editor, nil
}

// renderBet prints the bet on the editor's race, if any
func (a *app) renderBet(editor *betting.Editor) error {
	race := editor.Race()
	title := race.Label()

	var bets []models.Bet
	if existing := editor.Existing(); existing != nil {
		bets = append(bets, *existing)
	}
	rows, tbl := render.Bets(title, bets)
	if err := a.out.Render(rows, tbl); err != nil {
		return err
	}

	if editor.Open() {
		a.out.Message("Bets are open.")
	} else {
		a.out.Message("Bets are closed for this race.")
	}
	return nil
}

func newBetListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all your bets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			bets, err := a.client.MyBets(ctx)
			if err != nil {
				return a.apiError(err)
			}
			rows, tbl := render.Bets("My bets", bets)
			return a.out.Render(rows, tbl)
		},
	}
}

func newBetShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <raceID>",
		Short: "Show your bet on a race",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			editor, err := a.loadEditor(ctx, args[0])
			if err != nil {
				return err
			}
			return a.renderBet(editor)
		},
	}
}

func newBetPlaceCmd(a *app) *cobra.Command {
	var p10, dnf int

	cmd := &cobra.Command{
		Use:   "place <raceID>",
		Short: "Bet on the driver finishing tenth and the first to retire",
		Long: `Places a bet on the race, or changes the one you already placed.
When changing a bet, a pick left out keeps its current driver.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			editor, err := a.loadEditor(ctx, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("p10") {
				editor.SelectP10(p10)
			}
			if cmd.Flags().Changed("dnf") {
				editor.SelectDNF(dnf)
			}
			action := "placed"
			if editor.Existing() != nil {
				action = "updated"
			}

			if _, err := editor.Submit(ctx); err != nil {
				if errors.Is(err, betting.ErrIncompleteSelection) {
					return errors.New("pick both drivers: use --p10 and --dnf")
				}
				return a.apiError(err)
			}

			if err := a.renderBet(editor); err != nil {
				return err
			}
			a.out.Notice("Bet %s.", action)
			return nil
		},
	}

	cmd.Flags().IntVar(&p10, "p10", 0, "Driver id predicted to finish tenth")
	cmd.Flags().IntVar(&dnf, "dnf", 0, "Driver id predicted to retire first")
	return cmd
}

func newBetDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <raceID>",
		Short: "Remove your bet on a race",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			editor, err := a.loadEditor(ctx, args[0])
			if err != nil {
				return err
			}
			if err := editor.Delete(ctx); err != nil {
				if errors.Is(err, betting.ErrNoExistingBet) {
					return errors.New("no bet placed on this race")
				}
				return a.apiError(err)
			}

			a.out.Notice("Bet deleted.")
			return nil
		},
	}
}
