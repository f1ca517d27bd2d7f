package commands

import (
	"fmt"

	"github.com/denchenko/cartdash/internal/core/app"
	"github.com/denchenko/cartdash/internal/core/auth"
	"github.com/denchenko/cartdash/internal/core/domain"
	ascii "github.com/denchenko/cartdash/internal/format/ascii"
	"github.com/denchenko/cartdash/internal/log"
	"github.com/spf13/cobra"
)

func Products(appInstance *app.App, gate *auth.Gate, formatter *ascii.Formatter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the product catalogue",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := requireSession(cmd.Context(), gate)

			return err
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List products with their discounted prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var products []domain.Product
			err := log.WithSpinner("Fetching products...", func() error {
				var err error
				products, err = appInstance.ListProducts(cmd.Context())

				return err
			})
			if err != nil {
				return fmt.Errorf("failed to list products: %w", err)
			}

			return render(cmd, products, func() (string, error) {
				return formatter.FormatProducts(products)
			})
		},
	})

	return cmd
}
