package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clanops/muster/cmd/muster/internal"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print muster version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Println("muster", internal.GetVersion())
		},
	}
}
