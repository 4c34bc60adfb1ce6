package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/iamasit07/gravity-four/backend/internal/config"
	"github.com/iamasit07/gravity-four/backend/internal/domain"
	"github.com/iamasit07/gravity-four/backend/internal/repository/memory"
	"github.com/iamasit07/gravity-four/backend/internal/repository/postgres"
	"github.com/iamasit07/gravity-four/backend/internal/repository/redis"
	"github.com/iamasit07/gravity-four/backend/internal/repository/sqlite"
	"github.com/iamasit07/gravity-four/backend/internal/service/game"
	"github.com/iamasit07/gravity-four/backend/internal/service/session"
	transportHttp "github.com/iamasit07/gravity-four/backend/internal/transport/http"
	"github.com/iamasit07/gravity-four/backend/internal/transport/websocket"
	"github.com/iamasit07/gravity-four/backend/pkg/auth"
)

type stores struct {
	games    game.GameStore
	sessions session.SessionStore
	db       *sql.DB
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		store, db, err := postgres.NewStore(ctx, cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:       cfg.DBMaxOpenConns,
			MaxIdleConns:       cfg.DBMaxIdleConns,
			ConnMaxLifetimeMin: cfg.DBConnMaxLifetimeMin,
		})
		if err != nil {
			return stores{}, err
		}
		return stores{games: store.Games, sessions: store.Sessions, db: db}, nil
	case config.DriverSQLite:
		store, db, err := sqlite.NewStore(ctx, cfg.SQLitePath)
		if err != nil {
			return stores{}, err
		}
		return stores{games: store.Games, sessions: store.Sessions, db: db}, nil
	default:
		log.Println("[DB] Using in-memory stores, state is lost on restart")
		return stores{games: memory.NewGameStore(), sessions: memory.NewSessionStore()}, nil
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cmd := &cli.Command{
		Name:   "gravity-four",
		Usage:  "four in a row game server",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP and websocket server",
				Action: serve,
			},
			{
				Name:  "token",
				Usage: "sign a participant token with JWT_SECRET",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "participant", Usage: "participant uuid", Required: true},
					&cli.DurationFlag{Name: "ttl", Usage: "token lifetime", Value: 24 * time.Hour},
				},
				Action: signToken,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func signToken(_ context.Context, c *cli.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	token, err := auth.NewVerifier(cfg.JWTSecret).GenerateParticipantToken(c.String("participant"), c.Duration("ttl"))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func serve(ctx context.Context, _ *cli.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dims, err := domain.NewBoardDimensions(cfg.BoardRows, cfg.BoardColumns, cfg.BoardRequireEvenCells)
	if err != nil {
		return fmt.Errorf("invalid board configuration: %w", err)
	}
	gameOpts := []domain.GameOption{domain.WithDimensions(dims.Rows, dims.Columns)}
	if cfg.BoardRequireEvenCells {
		gameOpts = append(gameOpts, domain.WithEvenCells())
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Persistence
	st, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}
	if st.db != nil {
		defer st.db.Close()
	}

	connManager := websocket.NewConnectionManager()
	gameStore := st.games
	var notifiers game.Notifiers

	// 2. Redis: cache in front of the game store and cross-instance move relay
	if cfg.RedisURL != "" {
		if client := redis.Connect(ctx, redis.Options{Addr: cfg.RedisURL, Password: cfg.RedisPassword}); client != nil {
			defer client.Close()
			gameStore = redis.NewCachedGameStore(gameStore, client, cfg.RedisCacheTTL)
			notifiers = append(notifiers, redis.NewMovePublisher(client))
			go func() {
				if err := redis.RelayMoves(ctx, client, connManager); err != nil {
					log.Printf("[REDIS] Move relay stopped: %v", err)
				}
			}()
		}
	}
	if len(notifiers) == 0 {
		notifiers = append(notifiers, connManager)
	}

	// 3. Services
	gameService := game.NewService(gameStore, game.WithGameOptions(gameOpts...), game.WithNotifier(notifiers))
	sessionService := session.NewService(st.sessions, gameService)

	// 4. Transport
	wsHandler := websocket.NewHandler(connManager, gameService, cfg.AllowedOrigins)
	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		Sessions:       sessionService,
		Games:          gameService,
		Verifier:       auth.NewVerifier(cfg.JWTSecret),
		AllowedOrigins: cfg.AllowedOrigins,
		WebSocket:      wsHandler.HandleWebSocket,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on :%s (%s store, %dx%d board)", cfg.Port, cfg.StoreDriver, dims.Rows, dims.Columns)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}
	log.Println("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	connManager.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
	return nil
}
