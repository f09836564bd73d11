package handler

import (
	"scrawl/internal/auth"
	"scrawl/internal/configs"
	"scrawl/internal/game"
)

type AppDeps struct {
	Manager  *game.Manager
	Config   *configs.AppConfig
	Verifier auth.Verifier
}
