package tunnel

import (
	"fmt"

	"github.com/spf13/cobra"

	"pushbridge/internal/logger"
	"pushbridge/internal/rpc"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the tunnel",
	Run: func(cmd *cobra.Command, args []string) {
		client := rpc.NewClient(nil)
		resp, err := client.Delete(APIBase)
		if err != nil {
			logger.Fatalf("Agent server not reachable: %v", err)
		}
		if !resp.OK() {
			logger.Fatalf("Failed to stop tunnel: %s", resp.Error)
		}
		fmt.Println("Tunnel stopped")
	},
}

func init() {
	tunnelCmd.AddCommand(stopCmd)
}
