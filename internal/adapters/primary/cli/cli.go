package cli

import (
	"github.com/denchenko/cartdash/internal/adapters/primary/cli/commands"
	"github.com/denchenko/cartdash/internal/core/app"
	"github.com/denchenko/cartdash/internal/core/auth"
	"github.com/denchenko/cartdash/internal/format"
	ascii "github.com/denchenko/cartdash/internal/format/ascii"
	do "github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Command creates and returns the root CLI command.
func Command(i do.Injector) (*cobra.Command, error) {
	appInstance := do.MustInvoke[*app.App](i)
	gate := do.MustInvoke[*auth.Gate](i)
	formatter := do.MustInvoke[*ascii.Formatter](i)

	return NewRoot(appInstance, gate, formatter), nil
}

// NewRoot builds the command tree.
func NewRoot(appInstance *app.App, gate *auth.Gate, formatter *ascii.Formatter) *cobra.Command {
	var output string

	// Subcommands that check the session define their own pre-run hooks.
	cobra.EnableTraverseRunHooks = true

	cmd := &cobra.Command{
		Use:           "cartdash",
		Long:          `A CLI tool for browsing and editing users and their carts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return format.Validate(output)
		},
	}

	cmd.PersistentFlags().StringVarP(&output, commands.OutputFlag, "o", format.Table, "Output format: table, json or yaml")

	cmd.AddCommand(
		commands.Login(gate),
		commands.Logout(gate),
		commands.Whoami(gate),
		commands.Profile(appInstance, gate, formatter),
		commands.Users(appInstance, gate, formatter),
		commands.Cart(appInstance, gate, formatter),
		commands.Products(appInstance, gate, formatter),
	)

	return cmd
}
