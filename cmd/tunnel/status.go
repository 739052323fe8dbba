package tunnel

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"pushbridge/internal/logger"
	"pushbridge/internal/models"
	"pushbridge/internal/rpc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tunnel status",
	Run: func(cmd *cobra.Command, args []string) {
		client := rpc.NewClient(nil)
		resp, err := client.Get(APIBase)
		if err != nil {
			logger.Fatalf("Agent server not reachable: %v", err)
		}
		if resp.StatusCode == http.StatusNotFound {
			fmt.Println("Tunnel never started")
			return
		}
		if !resp.OK() {
			logger.Fatalf("Failed to query tunnel status: %s", resp.Error)
		}

		var status models.ProcessStatus
		if err := json.Unmarshal(resp.Body, &status); err != nil {
			logger.Fatalf("Failed to parse status response: %v", err)
		}
		fmt.Printf("Status:  %s\n", status.Description())
		if status.Running {
			fmt.Printf("PID:     %d\n", status.Pid)
			fmt.Printf("Uptime:  %s\n", status.Uptime().Round(time.Second))
		}
		if status.TunnelURL != "" {
			fmt.Printf("URL:     %s\n", status.TunnelURL)
		}
		if status.ExitCode != nil {
			fmt.Printf("Exit:    %d\n", *status.ExitCode)
		}
		if status.ErrorMessage != "" {
			fmt.Printf("Error:   %s\n", status.ErrorMessage)
		}
	},
}

func init() {
	tunnelCmd.AddCommand(statusCmd)
}
