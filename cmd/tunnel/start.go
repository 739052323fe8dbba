package tunnel

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"pushbridge/internal/logger"
	"pushbridge/internal/models"
	"pushbridge/internal/rpc"
	"pushbridge/services"
)

var (
	startLocalPort  int
	startServerAddr string
	startProxyName  string
	startSubdomain  string
	startToken      string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tunnel",
	Run: func(cmd *cobra.Command, args []string) {
		if startLocalPort == 0 {
			logger.Fatal("Must specify the local port to expose (--local-port)")
		}

		cfg := models.TunnelConfig{
			LocalPort:  startLocalPort,
			ServerAddr: startServerAddr,
			ProxyName:  startProxyName,
			Subdomain:  startSubdomain,
			Token:      startToken,
		}
		services.FillTunnelDefaults(&cfg)

		if tryStartViaServer(cfg) {
			return
		}

		// no running agent server, supervise the tunnel from this process
		logger.Infof("No agent server reachable, starting tunnel in foreground")
		runForeground(cfg)
	},
}

/**
 * Try to start the tunnel via a locally running agent server
 * @param {models.TunnelConfig} cfg - Session configuration
 * @returns {bool} True when the server accepted the request
 */
func tryStartViaServer(cfg models.TunnelConfig) bool {
	client := rpc.NewClient(nil)
	resp, err := client.Post(APIBase, cfg)
	if err != nil {
		logger.Debugf("Agent server not reachable: %v", err)
		return false
	}
	if !resp.OK() {
		logger.Fatalf("Agent server rejected tunnel start: %s", resp.Error)
	}
	var status models.ProcessStatus
	if err := json.Unmarshal(resp.Body, &status); err == nil {
		fmt.Printf("Tunnel started via agent server (PID: %d): %s\n", status.Pid, status.Description())
	} else {
		fmt.Println("Tunnel started via agent server")
	}
	return true
}

// runForeground supervises the tunnel until interrupted, then stops it so no
// orphaned child is left behind.
func runForeground(cfg models.TunnelConfig) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sup := services.DefaultSupervisor()
	sup.OnTunnelURLChanged(func(url string) {
		fmt.Printf("Tunnel active at %s\n", url)
	})

	status, err := sup.Start(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to start tunnel: %v", err)
	}
	fmt.Printf("Tunnel process started (PID: %d), press Ctrl-C to stop\n", status.Pid)

	<-ctx.Done()
	if ok, err := sup.Stop(context.Background()); !ok {
		logger.Fatalf("Failed to stop tunnel: %v", err)
	}
	fmt.Println("Tunnel stopped")
}

func init() {
	startCmd.Flags().IntVar(&startLocalPort, "local-port", 0, "Local port to expose through the tunnel")
	startCmd.Flags().StringVar(&startServerAddr, "server-addr", "", "Relay server address (defaults to configuration)")
	startCmd.Flags().StringVar(&startProxyName, "proxy-name", "", "Session name on the relay (generated when empty)")
	startCmd.Flags().StringVar(&startSubdomain, "subdomain", "", "Requested subdomain (generated when empty)")
	startCmd.Flags().StringVar(&startToken, "token", "", "Relay auth token (defaults to configuration)")
	tunnelCmd.AddCommand(startCmd)
}
