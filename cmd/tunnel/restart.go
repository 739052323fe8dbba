package tunnel

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pushbridge/internal/logger"
	"pushbridge/internal/models"
	"pushbridge/internal/rpc"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the tunnel with its last configuration",
	Run: func(cmd *cobra.Command, args []string) {
		client := rpc.NewClient(nil)
		resp, err := client.Post(APIBase+"/restart", nil)
		if err != nil {
			logger.Fatalf("Agent server not reachable: %v", err)
		}
		if !resp.OK() {
			logger.Fatalf("Failed to restart tunnel: %s", resp.Error)
		}
		var status models.ProcessStatus
		if err := json.Unmarshal(resp.Body, &status); err == nil {
			fmt.Printf("Tunnel restarted (PID: %d): %s\n", status.Pid, status.Description())
		} else {
			fmt.Println("Tunnel restarted")
		}
	},
}

func init() {
	tunnelCmd.AddCommand(restartCmd)
}
