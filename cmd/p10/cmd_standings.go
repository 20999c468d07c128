package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/p10-paddock/internal/render"
	"github.com/yourusername/p10-paddock/internal/standings"
)

func newStandingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "standings",
		Aliases: []string{"standing"},
		Short:   "Show race results and league tables",
	}
	cmd.AddCommand(newStandingsGPCmd(a), newStandingsLeagueCmd(a))
	return cmd
}

func newStandingsGPCmd(a *app) *cobra.Command {
	var dnfOnly bool

	cmd := &cobra.Command{
		Use:   "gp <gpID>",
		Short: "Show the classification of a Grand Prix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			entries, err := a.client.GPClassement(ctx, args[0])
			if err != nil {
				return a.apiError(err)
			}
			if dnfOnly {
				entries = standings.DNFs(entries)
			}

			rows, tbl := render.Classement(entries)
			if err := a.out.Render(rows, tbl); err != nil {
				return err
			}
			if p10 := standings.AtPosition(entries, 10); p10 != nil && !dnfOnly {
				a.out.Notice("P10: %s", p10.Pilote.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dnfOnly, "dnf", false, "Only list retired drivers")
	return cmd
}

func newStandingsLeagueCmd(a *app) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "league <leagueID>",
		Short: "Show the ranking of a league",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			id, err := parseID(args[0], "league")
			if err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			table, err := a.client.LeagueClassement(ctx, id)
			if err != nil {
				return a.apiError(err)
			}

			ranked := standings.RankLeague(table)
			rows, tbl := render.LeagueTable(standings.FilterLeague(ranked, search))
			if err := a.out.Render(rows, tbl); err != nil {
				return err
			}
			if me := a.identity(ctx); me != nil {
				if rank := standings.RankOf(ranked, me.ID); rank > 0 {
					a.out.Notice("You are ranked #%d of %d.", rank, len(ranked))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Keep members whose name or email contains this text")
	return cmd
}
