package binary

import (
	"github.com/spf13/cobra"

	"pushbridge/cmd/root"
)

var binaryCmd = &cobra.Command{
	Use:   "binary",
	Short: "Manage the tunnel client binary",
}

func init() {
	root.RootCmd.AddCommand(binaryCmd)
}
