package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/opentrails/data-relay/internal/config"
	"github.com/opentrails/data-relay/internal/database"
	"github.com/opentrails/data-relay/internal/handler"
	"github.com/opentrails/data-relay/internal/middleware"
	"github.com/opentrails/data-relay/internal/queue"
	"github.com/opentrails/data-relay/internal/repository"
	"github.com/opentrails/data-relay/internal/router"
	queue_publisher "github.com/opentrails/data-relay/internal/service"
	"github.com/opentrails/data-relay/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the cache and limiter become no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// One session store per process; tokens die with the process.
	sessions := session.New()

	accountRepo := repository.NewAccountRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	ticketRepo := repository.NewTicketRepo(db)

	accountH := handler.NewAccountHandler(cfg, accountRepo, sessions)
	activityH := handler.NewActivityHandler(activityRepo)
	statsH := handler.NewStatsHandler(accountRepo, activityRepo)
	ticketH := handler.NewTicketHandler(ticketRepo, queue_publisher.PublishTicketOpened)

	// Background consumer appends ticket.opened events to logs/tickets.log.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAPI(e, accountH, activityH, statsH, ticketH, sessions, cacheMW, limitMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
