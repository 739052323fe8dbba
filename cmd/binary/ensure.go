package binary

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pushbridge/internal/config"
	"pushbridge/internal/logger"
	"pushbridge/internal/platform"
	"pushbridge/services"
)

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Resolve the tunnel client binary for this platform",
	Long:  "Resolve the tunnel client binary for this platform, downloading and validating it if necessary.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bm := services.NewBinaryManager(config.Config.Binary)
		plat := platform.CurrentPlatform()
		path, err := bm.EnsureBinary(ctx, plat)
		if err != nil {
			logger.Fatalf("Failed to resolve binary: %v", err)
		}
		fmt.Printf("Binary ready: %s\n", path)
	},
}

func init() {
	binaryCmd.AddCommand(ensureCmd)
}
