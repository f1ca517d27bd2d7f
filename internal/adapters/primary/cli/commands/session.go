package commands

import (
	"errors"
	"fmt"

	"github.com/denchenko/cartdash/internal/core/app"
	"github.com/denchenko/cartdash/internal/core/auth"
	"github.com/denchenko/cartdash/internal/core/domain"
	ascii "github.com/denchenko/cartdash/internal/format/ascii"
	"github.com/denchenko/cartdash/internal/log"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

// openURL opens a URL in the default browser.
var openURL = open.Run

func Login(gate *auth.Gate) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a user's email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var result auth.Result
			err := log.WithSpinner("Signing in...", func() error {
				result = gate.SignIn(cmd.Context(), email, password)

				return nil
			})
			if err != nil {
				return err
			}

			if !result.OK {
				return errors.New(result.Message)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", result.Identity.Email)

			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func Logout(gate *auth.Gate) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := gate.SignOut(cmd.Context()); err != nil {
				return fmt.Errorf("failed to sign out: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out")

			return err
		},
	}
}

func Whoami(gate *auth.Gate) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := requireSession(cmd.Context(), gate)
			if err != nil {
				return err
			}

			return render(cmd, identity, func() (string, error) {
				return identity.Email + "\n", nil
			})
		},
	}
}

func Profile(appInstance *app.App, gate *auth.Gate, formatter *ascii.Formatter) *cobra.Command {
	var openAvatar bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the full profile of the signed in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := requireSession(cmd.Context(), gate)
			if err != nil {
				return err
			}

			var user *domain.User
			err = log.WithSpinner("Fetching your profile...", func() error {
				user, err = appInstance.Profile(cmd.Context(), identity)

				return err
			})
			if err != nil {
				return fmt.Errorf("failed to get profile: %w", err)
			}

			if err := render(cmd, user, func() (string, error) {
				return formatter.FormatProfile(identity, user)
			}); err != nil {
				return err
			}

			if openAvatar && identity.AvatarURL != "" {
				if err := openURL(identity.AvatarURL); err != nil {
					return fmt.Errorf("failed to open avatar: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&openAvatar, "open", false, "Open the avatar in the browser")

	return cmd
}
