package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/daanhekking/ping-pong-august/internal/api/handlers"
	"github.com/daanhekking/ping-pong-august/internal/api/middleware"
	"github.com/daanhekking/ping-pong-august/internal/config"
	"github.com/daanhekking/ping-pong-august/internal/repository"
	"github.com/daanhekking/ping-pong-august/internal/service"
	"github.com/daanhekking/ping-pong-august/pkg/cache"
	"github.com/daanhekking/ping-pong-august/pkg/database"
	"github.com/daanhekking/ping-pong-august/pkg/logger"
)

// SetupRouter wires repositories, services, and handlers and starts
// the award snapshot scheduler. The returned stop function shuts the
// scheduler down.
func SetupRouter(cfg *config.Config, db *database.DB, rdb *redis.Client) (*gin.Engine, func()) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	readCache := cache.New(rdb, cfg.CacheFreshness)

	playerRepo := repository.NewPlayerRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	awardRepo := repository.NewAwardRepository(db)

	eloService := service.NewELOService()
	playerService := service.NewPlayerService(playerRepo, readCache)
	matchService := service.NewMatchService(matchRepo, playerRepo, eloService, readCache)
	awardsService := service.NewAwardsService(playerRepo, matchRepo, awardRepo, readCache)

	snapshotService := service.NewAwardSnapshotService(
		awardsService,
		service.NewRedisMarkerStore(rdb),
		nil, // wall clock
	)
	if err := snapshotService.Start(); err != nil {
		logger.Error("Failed to start award snapshot scheduler", "error", err)
	} else {
		logger.Info("Award snapshot scheduler started")
	}

	playerHandler := handlers.NewPlayerHandler(playerService, matchService)
	matchHandler := handlers.NewMatchHandler(matchService)
	leaderboardHandler := handlers.NewLeaderboardHandler(playerService)
	awardsHandler := handlers.NewAwardsHandler(awardsService)

	router.GET("/health", handlers.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		players := v1.Group("/players")
		{
			players.GET("", playerHandler.ListPlayers)
			players.GET("/:id", playerHandler.GetPlayer)
			players.POST("", middleware.WriteRateLimit(), playerHandler.CreatePlayer)
		}

		matches := v1.Group("/matches")
		{
			matches.GET("", matchHandler.ListMatches)
			matches.POST("", middleware.WriteRateLimit(), matchHandler.CreateMatch)
		}

		v1.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		awards := v1.Group("/monthly-awards")
		{
			awards.GET("", awardsHandler.ListAwards)
			awards.GET("/winners", awardsHandler.GetWinners)
			awards.POST("", middleware.WriteRateLimit(), awardsHandler.SaveAwards)
		}
	}

	return router, snapshotService.Stop
}
