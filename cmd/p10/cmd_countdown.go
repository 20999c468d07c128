package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/p10-paddock/internal/countdown"
	"github.com/yourusername/p10-paddock/internal/models"
	"github.com/yourusername/p10-paddock/internal/render"
)

func newCountdownCmd(a *app) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "countdown [raceID]",
		Short: "Count down to the start of a race, the next one by default",
		Long: `Prints the time left before the race starts, refreshed every second until the
race starts or the command is interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			var (
				gp  *models.GP
				err error
			)
			if len(args) == 1 {
				gp, err = a.client.GP(ctx, args[0])
			} else {
				gp, err = a.client.NextGP(ctx)
			}
			cancel()
			if err != nil {
				return a.apiError(err)
			}

			target, err := gp.StartsAt(a.loc)
			if err != nil {
				return fmt.Errorf("race %s has no valid start time: %w", gp.ID, err)
			}

			if once {
				return a.printCountdown(*gp, countdown.Calculate(target, a.now()))
			}

			ticker := countdown.NewTicker(target, func(r countdown.Result) {
				if err := a.printCountdown(*gp, r); err != nil {
					a.log.WithError(err).Warn("Failed to print countdown")
				}
			}, countdown.WithTickerClock(a.now), countdown.WithTickerLogger(a.log))
			if err := ticker.Start(); err != nil {
				return err
			}

			select {
			case <-ticker.Done():
			case <-cmd.Context().Done():
			}
			ticker.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Print the countdown once and exit")
	return cmd
}

func (a *app) printCountdown(gp models.GP, r countdown.Result) error {
	if a.out.Format() != render.FormatTable {
		return a.out.Render(r, nil)
	}
	_, err := fmt.Fprintln(a.stdout, render.CountdownLine(gp, r))
	return err
}
