package tunnel

import (
	"github.com/spf13/cobra"

	"pushbridge/cmd/root"
)

// APIBase is the route prefix of the agent's tunnel endpoints.
const APIBase = "/pushbridge/api/v1/tunnel"

var tunnelCmd = &cobra.Command{
	Use:   "tunnel",
	Short: "Manage the notification tunnel",
}

func init() {
	root.RootCmd.AddCommand(tunnelCmd)
}
