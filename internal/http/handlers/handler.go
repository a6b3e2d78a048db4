package handlers

import (
	"time"

	"janken_backend/internal/repository"
	"janken_backend/internal/service"

	redis "github.com/redis/go-redis/v9"
)

type Handler struct {
	RDB         *redis.Client
	GameService *service.GameService
}

func NewHandler(rdb *redis.Client, sessionTTL, lockTTL time.Duration) *Handler {
	sessions := repository.NewSessionRepository(rdb, sessionTTL, lockTTL)
	return &Handler{
		RDB:         rdb,
		GameService: service.NewGameService(sessions),
	}
}
