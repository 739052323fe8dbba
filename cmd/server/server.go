package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"pushbridge/cmd/root"
	"pushbridge/controllers"
	"pushbridge/internal/config"
	"pushbridge/internal/logger"
	"pushbridge/internal/middleware"
	"pushbridge/internal/platform"
	"pushbridge/services"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the agent HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := startServer(context.Background()); err != nil {
			logger.Fatal(err)
		}
	},
}

func startServer(ctx context.Context) error {
	gin.SetMode(config.Config.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.MetricsMiddleware())

	binaries := services.NewBinaryManager(config.Config.Binary)
	supervisor := services.NewSupervisor(binaries, nil)
	supervisor.OnTunnelURLChanged(func(url string) {
		logger.Infof("Tunnel URL changed: %s", url)
	})

	controllers.NewTunnelController(supervisor).RegisterRoutes(router)
	controllers.NewStateController(supervisor, binaries).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sched := cron.New()
	// a crashed child should be noticed even with no API traffic polling it
	if _, err := sched.AddFunc("@every 1m", func() {
		if st := supervisor.GetStatus(); st != nil {
			logger.Debugf("Tunnel health: %s", st.Description())
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule health sweep: %w", err)
	}
	// nightly refresh keeps the binary cache current for the next session
	if _, err := sched.AddFunc("30 3 * * *", func() {
		if _, err := binaries.EnsureBinary(context.Background(), platform.CurrentPlatform()); err != nil {
			logger.Warnf("Scheduled binary refresh failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule binary refresh: %w", err)
	}
	sched.Start()
	defer sched.Stop()
	defer func() {
		// the host going down takes the child with it, do not leave orphans
		if ok, err := supervisor.Stop(context.Background()); !ok {
			logger.Errorf("Failed to stop tunnel on shutdown: %v", err)
		}
	}()

	logger.Infof("pushbridge agent listening on %s", config.Config.Server.Address)
	return router.Run(config.Config.Server.Address)
}

func init() {
	root.RootCmd.AddCommand(serverCmd)
}
