package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pushbridge/internal/models"
	"pushbridge/services"
)

// TunnelController handles tunnel-related HTTP requests
type TunnelController struct {
	supervisor *services.Supervisor
}

// NewTunnelController creates a TunnelController bound to the given supervisor
func NewTunnelController(sup *services.Supervisor) *TunnelController {
	return &TunnelController{supervisor: sup}
}

// statusForError maps supervisor errors to HTTP status codes: validation and
// resolution failures are client-side problems, registry trouble is a bad
// gateway, the rest is internal.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrConfigValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoConfiguration):
		return http.StatusConflict
	case errors.Is(err, services.ErrBinaryNotFound),
		errors.Is(err, services.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNetwork),
		errors.Is(err, services.ErrTruncatedDownload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// StartTunnel launches the tunnel process
//
//	@Summary		Start tunnel
//	@Description	Validate the configuration, resolve the tunnel binary and launch the process
//	@Tags			Tunnel
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.TunnelConfig		true	"Tunnel session configuration"
//	@Success		200		{object}	models.ProcessStatus	"Status snapshot of the launched process"
//	@Failure		400		{object}	models.ErrorResponse	"Invalid configuration"
//	@Failure		404		{object}	models.ErrorResponse	"No usable binary for this platform"
//	@Failure		502		{object}	models.ErrorResponse	"Release registry unreachable"
//	@Router			/pushbridge/api/v1/tunnel [post]
func (tc *TunnelController) StartTunnel(c *gin.Context) {
	var cfg models.TunnelConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, &models.ErrorResponse{
			Error: "Invalid request parameters",
		})
		return
	}
	services.FillTunnelDefaults(&cfg)

	status, err := tc.supervisor.Start(c.Request.Context(), cfg)
	if err != nil {
		c.JSON(statusForError(err), &models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// StopTunnel stops the tunnel process
//
//	@Summary		Stop tunnel
//	@Description	Request graceful shutdown, escalating to a forced kill after the grace period
//	@Tags			Tunnel
//	@Produce		json
//	@Success		200	{object}	models.TunnelResponse	"Stop result"
//	@Failure		500	{object}	models.ErrorResponse	"Process failed to terminate"
//	@Router			/pushbridge/api/v1/tunnel [delete]
func (tc *TunnelController) StopTunnel(c *gin.Context) {
	// stopping must not be cut short by the client hanging up, use a fresh context
	ok, err := tc.supervisor.Stop(context.Background())
	if !ok {
		c.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, &models.TunnelResponse{
		Status:  "success",
		Message: "Tunnel stopped",
	})
}

// RestartTunnel restarts the tunnel with the retained configuration
//
//	@Summary		Restart tunnel
//	@Description	Stop the current process (if any) and start again with the last known configuration
//	@Tags			Tunnel
//	@Produce		json
//	@Success		200	{object}	models.ProcessStatus	"Status snapshot of the new process"
//	@Failure		409	{object}	models.ErrorResponse	"No prior configuration to restart with"
//	@Router			/pushbridge/api/v1/tunnel/restart [post]
func (tc *TunnelController) RestartTunnel(c *gin.Context) {
	status, err := tc.supervisor.Restart(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), &models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetTunnelStatus returns a refreshed status snapshot
//
//	@Summary		Get tunnel status
//	@Description	Crashed or stopped sessions are informational payloads, not errors
//	@Tags			Tunnel
//	@Produce		json
//	@Success		200	{object}	models.ProcessStatus	"Refreshed status snapshot"
//	@Failure		404	{object}	models.ErrorResponse	"Tunnel was never started"
//	@Router			/pushbridge/api/v1/tunnel [get]
func (tc *TunnelController) GetTunnelStatus(c *gin.Context) {
	status := tc.supervisor.GetStatus()
	if status == nil {
		c.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "tunnel never started"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetTunnelURL returns the discovered public URL
//
//	@Summary		Get tunnel URL
//	@Tags			Tunnel
//	@Produce		json
//	@Success		200	{object}	map[string]string		"Public tunnel URL"
//	@Failure		404	{object}	models.ErrorResponse	"No URL discovered yet"
//	@Router			/pushbridge/api/v1/tunnel/url [get]
func (tc *TunnelController) GetTunnelURL(c *gin.Context) {
	url := tc.supervisor.GetTunnelURL()
	if url == "" {
		c.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "tunnel URL not discovered yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

/**
 * Register all tunnel routes to the Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Creates the /pushbridge/api/v1 route group with:
 *   - Start tunnel (POST /tunnel)
 *   - Stop tunnel (DELETE /tunnel)
 *   - Restart tunnel (POST /tunnel/restart)
 *   - Get status (GET /tunnel)
 *   - Get public URL (GET /tunnel/url)
 */
func (tc *TunnelController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/pushbridge/api/v1")
	{
		tunnel := api.Group("/tunnel")
		{
			tunnel.POST("", tc.StartTunnel)
			tunnel.GET("", tc.GetTunnelStatus)
			tunnel.DELETE("", tc.StopTunnel)
			tunnel.POST("/restart", tc.RestartTunnel)
			tunnel.GET("/url", tc.GetTunnelURL)
		}
	}
}
