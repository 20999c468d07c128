package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/p10-paddock/internal/countdown"
	"github.com/yourusername/p10-paddock/internal/races"
	"github.com/yourusername/p10-paddock/internal/render"
)

func newRacesCmd(a *app) *cobra.Command {
	var (
		filter   string
		search   string
		featured bool
	)

	cmd := &cobra.Command{
		Use:   "races",
		Short: "List the Grand Prix calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			f, err := races.ParseFilter(filter)
			if err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			gps, err := a.client.AllGPs(ctx)
			if err != nil {
				return a.apiError(err)
			}

			now := a.now()
			title := "Races"
			gps = races.SortByStart(gps, a.loc)
			if featured {
				title = "Featured races"
				gps = races.Featured(gps, races.FeaturedCount, now, a.loc)
			} else {
				gps = races.Select(races.Search(gps, search), f, now, a.loc)
			}

			rows, tbl := render.Races(title, gps, now, a.loc)
			return a.out.Render(rows, tbl)
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Which races to list: all, upcoming or past")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Keep races whose track or country contains this text")
	cmd.Flags().BoolVar(&featured, "featured", false, "Only the next three races")
	cmd.MarkFlagsMutuallyExclusive("featured", "search")

	cmd.AddCommand(newRacesNextCmd(a), newRacesDriversCmd(a))
	return cmd
}

func newRacesNextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the next Grand Prix and the time left before it starts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			gp, err := a.client.NextGP(ctx)
			if err != nil {
				return a.apiError(err)
			}

			now := a.now()
			remaining := countdown.Until(gp.Date, gp.Time, a.loc, now)
			view, tbl := render.NextRace(*gp, remaining, now, a.loc)
			return a.out.Render(view, tbl)
		},
	}
}

func newRacesDriversCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List the drivers you can bet on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			pilotes, err := a.client.Pilotes(ctx)
			if err != nil {
				return a.apiError(err)
			}

			rows, tbl := render.Pilotes(pilotes)
			return a.out.Render(rows, tbl)
		},
	}
}
