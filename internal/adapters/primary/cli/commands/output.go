package commands

import (
	"context"
	"fmt"

	"github.com/denchenko/cartdash/internal/core/auth"
	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/denchenko/cartdash/internal/format"
	"github.com/spf13/cobra"
)

// OutputFlag is the persistent flag selecting the output format.
const OutputFlag = "output"

// render prints v in the format selected on the command line. The table
// format uses the ascii formatter through table.
func render(cmd *cobra.Command, v any, table func() (string, error)) error {
	name := format.Table
	if f := cmd.Flag(OutputFlag); f != nil {
		name = f.Value.String()
	}

	if name != format.Table {
		return format.Encode(cmd.OutOrStdout(), name, v)
	}

	formatted, err := table()
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), formatted)

	return err
}

func requireSession(ctx context.Context, gate *auth.Gate) (domain.Identity, error) {
	identity, ok := gate.Session(ctx)
	if !ok {
		return domain.Identity{}, fmt.Errorf("not signed in, run login first: %w", domain.ErrAuthFailure)
	}

	return identity, nil
}
