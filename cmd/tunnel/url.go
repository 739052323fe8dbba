package tunnel

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"pushbridge/internal/logger"
	"pushbridge/internal/rpc"
)

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the public tunnel URL",
	Run: func(cmd *cobra.Command, args []string) {
		client := rpc.NewClient(nil)
		resp, err := client.Get(APIBase + "/url")
		if err != nil {
			logger.Fatalf("Agent server not reachable: %v", err)
		}
		if resp.StatusCode == http.StatusNotFound {
			fmt.Println("Tunnel URL not discovered yet")
			return
		}
		if !resp.OK() {
			logger.Fatalf("Failed to query tunnel URL: %s", resp.Error)
		}
		var body map[string]string
		if err := json.Unmarshal(resp.Body, &body); err != nil {
			logger.Fatalf("Failed to parse response: %v", err)
		}
		fmt.Println(body["url"])
	},
}

func init() {
	tunnelCmd.AddCommand(urlCmd)
}
