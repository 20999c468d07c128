package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yourusername/p10-paddock/internal/api"
	"github.com/yourusername/p10-paddock/internal/models"
	"github.com/yourusername/p10-paddock/internal/render"
)

func newLeaguesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "leagues",
		Aliases: []string{"league"},
		Short:   "Browse, join and create leagues",
	}
	cmd.AddCommand(
		newLeaguesListCmd(a, "mine", "List the leagues you belong to", "My leagues", (*api.Client).MyLeagues),
		newLeaguesListCmd(a, "public", "List the public leagues", "Public leagues", (*api.Client).PublicLeagues),
		newLeaguesJoinCmd(a),
		newLeaguesCreateCmd(a),
		newLeaguesMembersCmd(a),
	)
	return cmd
}

type leagueLister func(*api.Client, context.Context) ([]models.League, error)

func newLeaguesListCmd(a *app, use, short, title string, list leagueLister) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			leagues, err := list(a.client, ctx)
			if err != nil {
				return a.apiError(err)
			}
			rows, tbl := render.Leagues(title, leagues)
			return a.out.Render(rows, tbl)
		},
	}
}

func newLeaguesJoinCmd(a *app) *cobra.Command {
	var link string

	cmd := &cobra.Command{
		Use:   "join [leagueID]",
		Short: "Join a public league by id, or a private one with its invite link",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			req := api.JoinRequest{SharedLink: link}
			if len(args) == 1 {
				id, err := parseID(args[0], "league")
				if err != nil {
					return err
				}
				req.LeagueID = id
			}
			if err := req.Validate(); err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			league, err := a.client.JoinLeague(ctx, req)
			if err != nil {
				return a.apiError(err)
			}
			a.activity.LogLeagueJoined(league.ID, league.Name, req.SharedLink != "")

			rows, tbl := render.Leagues("Joined", []models.League{*league})
			if err := a.out.Render(rows, tbl); err != nil {
				return err
			}
			a.out.Notice("Welcome to %s.", league.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&link, "link", "", "Invite link of a private league")
	return cmd
}

func newLeaguesCreateCmd(a *app) *cobra.Command {
	var private bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a league",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			league, err := a.client.CreateLeague(ctx, args[0], private)
			if err != nil {
				return a.apiError(err)
			}
			a.activity.LogLeagueCreated(league.ID, league.Name, league.Private)

			rows, tbl := render.Leagues("Created", []models.League{*league})
			if err := a.out.Render(rows, tbl); err != nil {
				return err
			}
			if link := league.InviteLink(); link != "" {
				a.out.Notice("Share this invite link: %s", link)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&private, "private", false, "Only members with the invite link can join")
	return cmd
}

func newLeaguesMembersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "members <leagueID>",
		Short: "List the members of a league",
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

			members, err := a.client.LeagueUsers(ctx, id)
			if err != nil {
				return a.apiError(err)
			}
			rows, tbl := render.Members(members)
			return a.out.Render(rows, tbl)
		},
	}
}

// parseID parses a positive numeric id
func parseID(raw, what string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}
