package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/p10-paddock/internal/models"
	"github.com/yourusername/p10-paddock/internal/render"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your account",
	}
	cmd.AddCommand(newProfileUpdateCmd(a), newProfileDeleteCmd(a))
	return cmd
}

func newProfileUpdateCmd(a *app) *cobra.Command {
	var update models.ProfileUpdate

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change your name or password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if update.IsEmpty() {
				return errors.New("nothing to update: use --firstname, --lastname or --password")
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			user, err := a.client.UpdateProfile(ctx, update)
			if err != nil {
				return a.apiError(err)
			}
			a.store.SetIdentity(user)
			a.activity.LogProfileChange(user.ID, changedFields(update))

			view, tbl := render.Profile(user)
			if err := a.out.Render(view, tbl); err != nil {
				return err
			}
			a.out.Message("Profile updated.")
			return nil
		},
	}

	cmd.Flags().StringVar(&update.Firstname, "firstname", "", "New first name")
	cmd.Flags().StringVar(&update.Lastname, "lastname", "", "New last name")
	cmd.Flags().StringVar(&update.Password, "password", "", "New password, at least 6 characters")
	return cmd
}

func newProfileDeleteCmd(a *app) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account and log out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if !confirm {
				return errors.New("account deletion cannot be undone: pass --yes to confirm")
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			if err := a.client.DeleteAccount(ctx); err != nil {
				return a.apiError(err)
			}
			a.store.Logout()
			a.activity.LogLogout("account deleted")
			a.out.Message("Account deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm the deletion")
	return cmd
}

func changedFields(update models.ProfileUpdate) string {
	var fields []string
	if update.Firstname != "" {
		fields = append(fields, "firstname")
	}
	if update.Lastname != "" {
		fields = append(fields, "lastname")
	}
	if update.Password != "" {
		fields = append(fields, "password")
	}
	return strings.Join(fields, ",")
}
