package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pushbridge/internal/config"
	"pushbridge/internal/env"
	"pushbridge/internal/models"
	"pushbridge/internal/platform"
	"pushbridge/services"
)

// StateController serves agent-level introspection endpoints
type StateController struct {
	supervisor *services.Supervisor
	binaries   *services.BinaryManager
	startTime  time.Time
}

func NewStateController(sup *services.Supervisor, bm *services.BinaryManager) *StateController {
	return &StateController{
		supervisor: sup,
		binaries:   bm,
		startTime:  time.Now(),
	}
}

// GetState returns a summary of the running agent
//
//	@Summary		Agent state
//	@Tags			Agent
//	@Produce		json
//	@Success		200	{object}	models.AgentState	"Agent summary"
//	@Router			/pushbridge/api/v1/state [get]
func (sc *StateController) GetState(c *gin.Context) {
	state := models.AgentState{
		Version:    env.Version,
		StartTime:  sc.startTime,
		Platform:   platform.CurrentPlatform(),
		BinaryMode: config.Config.Binary.Mode,
		Tunnel:     "Idle",
	}
	if status := sc.supervisor.GetStatus(); status != nil {
		state.Tunnel = status.Description()
		state.TunnelURL = status.TunnelURL
	}
	c.JSON(http.StatusOK, state)
}

// GetBinaryInfo returns metadata of the resolved tunnel binary
//
//	@Summary		Tunnel binary info
//	@Tags			Agent
//	@Produce		json
//	@Success		200	{object}	models.BinaryInfo		"Binary metadata"
//	@Failure		404	{object}	models.ErrorResponse	"No binary resolved for this platform"
//	@Router			/pushbridge/api/v1/binary [get]
func (sc *StateController) GetBinaryInfo(c *gin.Context) {
	info, err := sc.binaries.Describe(platform.CurrentPlatform())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrBinaryNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, &models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// RegisterRoutes registers agent introspection routes
func (sc *StateController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/pushbridge/api/v1")
	{
		api.GET("/state", sc.GetState)
		api.GET("/binary", sc.GetBinaryInfo)
	}
}
