package root

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "pushbridge-agent",
	Short: "Tunnel agent for the pushbridge notification forwarder",
	Long: `pushbridge-agent supervises the reverse tunnel that exposes the local
notification endpoint to paired mobile devices: it resolves and validates the
tunnel client binary, launches it, discovers the assigned public URL from its
output and manages the process lifecycle.`,
}
