package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/p10-paddock/internal/config"
	"github.com/yourusername/p10-paddock/internal/models"
	"github.com/yourusername/p10-paddock/internal/render"
)

var errPasswordRequired = errors.New("password required: use --password or --password-stdin")

func newLoginCmd(a *app) *cobra.Command {
	var (
		email         string
		password      string
		passwordStdin bool
		fromSecrets   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				payload *models.AuthPayload
				err     error
			)
			if fromSecrets {
				payload, err = a.loginFromSecrets(cmd.Context())
			} else {
				if passwordStdin {
					if password, err = readLine(a); err != nil {
						return err
					}
				}
				if strings.TrimSpace(email) == "" {
					return errors.New("email required: use --email")
				}
				if password == "" {
					return errPasswordRequired
				}
				payload, err = a.login(cmd.Context(), email, password)
			}
			if err != nil {
				return err
			}

			view, tbl := render.Profile(&payload.User)
			if err := a.out.Render(view, tbl); err != nil {
				return err
			}
			a.out.Notice("Logged in as %s, session valid until %s", payload.User.FullName(),
				a.store.ExpiresAt().In(a.loc).Format("January 2, 2006 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().BoolVar(&fromSecrets, "from-secrets", false, "Read email and password from AWS Secrets Manager")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin", "from-secrets")
	return cmd
}

// login opens a session with email and password and keeps its token
func (a *app) login(ctx context.Context, email, password string) (*models.AuthPayload, error) {
	ctx, cancel := a.timeout(ctx)
	defer cancel()

	payload, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if err := a.store.Login(payload.Token, &payload.User); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	a.activity.LogLogin(payload.User.ID, payload.User.Email)
	return payload, nil
}

// loginFromSecrets logs in with the credentials held in AWS Secrets Manager
func (a *app) loginFromSecrets(ctx context.Context) (*models.AuthPayload, error) {
	creds, err := config.LoadCredentialsFromAWS(ctx, a.cfg, a.secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	return a.login(ctx, creds.Email, creds.Password)
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store.Logout()
			a.activity.LogLogout("user request")
			a.out.Message("Logged out.")
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var (
		input         models.RegisterInput
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin {
				line, err := readLine(a)
				if err != nil {
					return err
				}
				input.Password = line
			}
			if input.Password == "" {
				return errPasswordRequired
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			user, err := a.client.Register(ctx, input)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			a.activity.LogRegistration(user.ID, user.Email)

			view, tbl := render.Profile(user)
			if err := a.out.Render(view, tbl); err != nil {
				return err
			}
			a.out.Message("Account created. Run `p10 login --email %s` to start playing.", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVar(&input.Firstname, "firstname", "", "First name")
	cmd.Flags().StringVar(&input.Lastname, "lastname", "", "Last name")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "Password, at least 6 characters")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("firstname")
	cmd.MarkFlagRequired("lastname")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()

			user, err := a.client.Me(ctx)
			if err != nil {
				return a.apiError(err)
			}
			a.store.SetIdentity(user)

			view, tbl := render.Profile(user)
			return a.out.Render(view, tbl)
		},
	}
}

// readLine reads one line from stdin without its line ending
func readLine(a *app) (string, error) {
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
