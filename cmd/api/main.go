package main

import (
	"context"
	"database/sql"
	"embed"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apppkg "github.com/timmytot666/ticketing-go/cmd/api/app"
	slashandlers "github.com/timmytot666/ticketing-go/cmd/api/slas"
	ticketshandlers "github.com/timmytot666/ticketing-go/cmd/api/tickets"
	slapkg "github.com/timmytot666/ticketing-go/internal/sla"
	ticketpkg "github.com/timmytot666/ticketing-go/internal/ticket"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	_ = godotenv.Load()
	cfg := apppkg.GetConfig()
	if cfg.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer pool.Close()

	// Migrate (embedded goose) using pgx stdlib driver
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("goose dialect")
	}
	sqldb, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("sql open for goose")
	}
	defer sqldb.Close()
	if err := goose.UpContext(ctx, sqldb, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("migrate up")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("redis ping failed (notification queue not active yet)")
	}
	defer rdb.Close()

	cal, err := slapkg.LoadCalendar(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("load business calendar")
	}
	policies, err := slapkg.LoadPolicies(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("load sla policies")
	}
	clock := slapkg.NewClock(cal, policies)
	store := ticketpkg.NewStore(pool)

	a := apppkg.NewApp(cfg, pool, store, clock, cal, rdb)

	a.R.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	a.R.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.R.POST("/tickets", ticketshandlers.Create(a))
	a.R.GET("/tickets/:id", ticketshandlers.Get(a))
	a.R.PATCH("/tickets/:id/status", ticketshandlers.ChangeStatus(a))
	a.R.PATCH("/tickets/:id/priority", ticketshandlers.ChangePriority(a))
	a.R.POST("/tickets/:id/comments", ticketshandlers.Comment(a))
	a.R.GET("/slas", slashandlers.List(a))
	a.R.POST("/slas/preview", slashandlers.Preview(a))

	log.Info().Str("addr", cfg.Addr).Msg("api listening")
	if err := a.R.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}
