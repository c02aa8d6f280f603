package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"nbapbp.dev/enginepbp/internal/api"
	"nbapbp.dev/enginepbp/internal/cache"
	"nbapbp.dev/enginepbp/internal/config"
	"nbapbp.dev/enginepbp/internal/echo"
	"nbapbp.dev/enginepbp/internal/middleware"
	"nbapbp.dev/enginepbp/internal/store"
)

// ServeCmd starts the HTTP server exposing the ingest/possessions/stats
// surface named in §4.11.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  "Starts the play-by-play engine's HTTP server: game ingest, possession readback, and cached aggregate stats.",
		RunE:  startServer,
	}

	cmd.Flags().Bool("debug", false, "Enable debug mode (disables rate limiting)")
	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	debugFlag, _ := cmd.Flags().GetBool("debug")

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	debugMode := cfg.Server.DebugMode || debugFlag

	logger := log.NewWithOptions(nil, log.Options{
		ReportTimestamp: true,
		Prefix:          "🏀",
	})
	if debugMode {
		logger.SetLevel(log.DebugLevel)
	}

	database, err := store.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	var redisClient *redis.Client
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Warn("invalid redis URL, caching disabled", "err", err)
	} else {
		redisClient = redis.NewClient(redisOpts)
		if _, err := redisClient.Ping(cmd.Context()).Result(); err != nil {
			logger.Warn("redis unreachable, caching disabled", "err", err)
			redisClient = nil
		}
	}

	cacheClient := cache.NewClient(redisClient, cache.Config{
		App:     "enginepbp",
		Env:     envName(debugMode),
		Version: cfg.Cache.Version,
		Enabled: cfg.Cache.Enabled && redisClient != nil,
	})

	server := api.NewServer(database, cacheClient, api.CacheTTLs{
		Query: time.Duration(cfg.Cache.TTLs.Query) * time.Second,
		Miss:  time.Duration(cfg.Cache.TTLs.Negative) * time.Second,
	}, logger)

	rateLimiter := middleware.NewRateLimiter(redisClient, debugMode, 300, 60, time.Minute)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	echo.Header("Play-by-Play Engine")
	echo.Infof("Listening on %s", addr)

	return http.ListenAndServe(addr, rateLimiter.Middleware(server))
}

func envName(debugMode bool) string {
	if debugMode {
		return "dev"
	}
	return "prod"
}
