package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clanops/muster/cmd/muster/internal/gateway"
	"github.com/clanops/muster/cmd/muster/internal/initdb"
	"github.com/clanops/muster/cmd/muster/internal/version"
)

func NewMusterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "muster",
		Short:   "muster - community roll-call bot for Discord",
		Example: "muster gateway",
	}

	cmd.AddCommand(
		gateway.NewGatewayCommand(),
		initdb.NewInitDBCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewMusterCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
