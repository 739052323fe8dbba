package services

import (
	"pushbridge/internal/config"
	"pushbridge/internal/models"
)

/**
 * Fill unset tunnel config fields from the configured relay defaults
 * @param {*models.TunnelConfig} cfg - Caller-supplied config, mutated in place
 * @description
 * - Empty proxy name gets a generated unique session identity so repeated
 *   sessions do not collide on the relay server
 * - Applied before validation, explicit caller values always win
 */
func FillTunnelDefaults(cfg *models.TunnelConfig) {
	def := config.Config.Tunnel
	if cfg.LocalAddr == "" {
		cfg.LocalAddr = "127.0.0.1"
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = def.ServerAddr
	}
	if cfg.ServerPort == 0 {
		cfg.ServerPort = def.ServerPort
	}
	if cfg.Token == "" {
		cfg.Token = def.Token
	}
	if cfg.Protocol == "" {
		cfg.Protocol = def.Protocol
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.ProxyName == "" {
		gen := models.CreateDefault(cfg.LocalPort, cfg.ServerAddr)
		cfg.ProxyName = gen.ProxyName
		if cfg.Subdomain == "" && cfg.CustomDomain == "" {
			cfg.Subdomain = gen.Subdomain
		}
	}
}
