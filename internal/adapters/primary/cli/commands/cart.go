package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/denchenko/cartdash/internal/core/app"
	"github.com/denchenko/cartdash/internal/core/auth"
	"github.com/denchenko/cartdash/internal/core/domain"
	ascii "github.com/denchenko/cartdash/internal/format/ascii"
	"github.com/denchenko/cartdash/internal/log"
	"github.com/spf13/cobra"
)

func Cart(appInstance *app.App, gate *auth.Gate, formatter *ascii.Formatter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect user carts",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := requireSession(cmd.Context(), gate)

			return err
		},
	}

	cmd.AddCommand(cartShow(appInstance, formatter))

	return cmd
}

func cartShow(appInstance *app.App, formatter *ascii.Formatter) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID...",
		Short: "Show the carts of one or more users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				if !slices.Contains(ids, id) {
					ids = append(ids, id)
				}
			}

			var carts map[int][]domain.CartItem
			err := log.WithSpinner("Fetching carts...", func() error {
				var err error
				carts, err = appInstance.LoadCarts(cmd.Context(), ids)

				return err
			})
			if err != nil {
				return fmt.Errorf("failed to load carts: %w", err)
			}

			return render(cmd, carts, func() (string, error) {
				var sb strings.Builder
				for _, id := range ids {
					formatted, err := formatter.FormatCart(id, carts[id])
					if err != nil {
						return "", err
					}
					sb.WriteString(formatted)
				}

				return sb.String(), nil
			})
		},
	}
}
