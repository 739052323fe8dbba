package binary

import (
	"fmt"

	"github.com/spf13/cobra"

	"pushbridge/internal/config"
	"pushbridge/internal/logger"
	"pushbridge/internal/platform"
	"pushbridge/services"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Show information about the resolved tunnel client binary",
	Run: func(cmd *cobra.Command, args []string) {
		bm := services.NewBinaryManager(config.Config.Binary)
		plat := platform.CurrentPlatform()
		info, err := bm.Describe(plat)
		if err != nil {
			logger.Fatalf("No usable binary for platform %s: %v", plat, err)
		}
		fmt.Printf("Platform:   %s\n", info.Platform)
		fmt.Printf("Path:       %s\n", info.Path)
		if info.Version != "" {
			fmt.Printf("Version:    %s\n", info.Version)
		}
		fmt.Printf("Size:       %d bytes\n", info.Size)
		fmt.Printf("Checksum:   %s\n", info.Checksum)
		fmt.Printf("Validated:  %v\n", info.Validated)
		fmt.Printf("Executable: %v\n", info.Executable)
	},
}

func init() {
	binaryCmd.AddCommand(checkCmd)
}
