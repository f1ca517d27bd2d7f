package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/denchenko/cartdash/internal/core/app"
	"github.com/denchenko/cartdash/internal/core/auth"
	"github.com/denchenko/cartdash/internal/core/domain"
	ascii "github.com/denchenko/cartdash/internal/format/ascii"
	"github.com/denchenko/cartdash/internal/log"
	"github.com/spf13/cobra"
)

func Users(appInstance *app.App, gate *auth.Gate, formatter *ascii.Formatter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Browse and edit users",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := requireSession(cmd.Context(), gate)

			return err
		},
	}

	cmd.AddCommand(
		usersList(appInstance, formatter),
		usersShow(appInstance, formatter),
		usersSearch(appInstance, formatter),
		usersEdit(appInstance, formatter),
	)

	return cmd
}

func usersList(appInstance *app.App, formatter *ascii.Formatter) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var users []*domain.User
			err := log.WithSpinner("Fetching users...", func() error {
				var err error
				if refresh {
					users, err = appInstance.RefreshUsers(cmd.Context())
				} else {
					users, err = appInstance.ListUsers(cmd.Context())
				}

				return err
			})
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			return render(cmd, users, func() (string, error) {
				return formatter.FormatUsers(users)
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Reload the collection even if it is cached")

	return cmd
}

func usersShow(appInstance *app.App, formatter *ascii.Formatter) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a user and the user's cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var uwc *domain.UserWithCart
			err = log.WithSpinner("Fetching user...", func() error {
				uwc, err = appInstance.GetUserWithCart(cmd.Context(), id)

				return err
			})
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			return render(cmd, uwc, func() (string, error) {
				return formatter.FormatUser(uwc)
			})
		},
	}
}

func usersSearch(appInstance *app.App, formatter *ascii.Formatter) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search users by free text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var users []*domain.User
			err := log.WithSpinner("Searching users...", func() error {
				var err error
				users, err = appInstance.SearchUsers(cmd.Context(), strings.Join(args, " "))

				return err
			})
			if err != nil {
				return fmt.Errorf("failed to search users: %w", err)
			}

			return render(cmd, users, func() (string, error) {
				return formatter.FormatUsers(users)
			})
		},
	}
}

func usersEdit(appInstance *app.App, formatter *ascii.Formatter) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit user fields, e.g. --set firstName=Emma --set address.city=Austin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			edits, err := parseEdits(sets)
			if err != nil {
				return err
			}

			var saved *domain.User
			err = log.WithSpinner("Saving user...", func() error {
				saved, err = appInstance.EditUser(cmd.Context(), id, edits)

				return err
			})
			if err != nil {
				return fmt.Errorf("failed to edit user: %w", err)
			}

			return render(cmd, saved, func() (string, error) {
				return formatter.FormatUsers([]*domain.User{saved})
			})
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field assignment path=value, repeatable")
	_ = cmd.MarkFlagRequired("set")

	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q: %w", s, domain.ErrInvalidInput)
	}

	return id, nil
}

func parseEdits(sets []string) (map[string]string, error) {
	edits := make(map[string]string, len(sets))
	for _, set := range sets {
		path, value, ok := strings.Cut(set, "=")
		path = strings.TrimSpace(path)
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid assignment %q, want path=value: %w", set, domain.ErrInvalidInput)
		}
		edits[path] = value
	}

	return edits, nil
}
