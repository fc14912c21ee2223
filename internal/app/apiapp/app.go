// Package apiapp wires configuration, storage, services and transports
// into the runnable API server.
package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/talelapse/a-board-view/internal/config"
	"github.com/talelapse/a-board-view/internal/infra/httpclient"
	s3infra "github.com/talelapse/a-board-view/internal/infra/s3"
	"github.com/talelapse/a-board-view/internal/jobs/seedbots"
	"github.com/talelapse/a-board-view/internal/repo/memory"
	pgrepo "github.com/talelapse/a-board-view/internal/repo/postgres"
	redrepo "github.com/talelapse/a-board-view/internal/repo/redis"
	botssvc "github.com/talelapse/a-board-view/internal/services/bots"
	chatsvc "github.com/talelapse/a-board-view/internal/services/chat"
	matchingsvc "github.com/talelapse/a-board-view/internal/services/matching"
	mediasvc "github.com/talelapse/a-board-view/internal/services/media"
	postssvc "github.com/talelapse/a-board-view/internal/services/posts"
	ratesvc "github.com/talelapse/a-board-view/internal/services/rate"
	userssvc "github.com/talelapse/a-board-view/internal/services/users"
	"github.com/talelapse/a-board-view/internal/storage"
	"github.com/talelapse/a-board-view/internal/transport/ws"
)

const startupPingTimeout = 5 * time.Second

// stores bundles the persistence interfaces so postgres and the
// in-memory fallback are interchangeable at wiring time.
type stores struct {
	users    storage.UserStore
	bots     storage.BotStore
	posts    storage.PostStore
	comments storage.CommentStore
	likes    storage.LikeStore
	matches  storage.MatchStore
	messages storage.ChatMessageStore
}

type App struct {
	cfg         config.Config
	logger      *zap.Logger
	server      *http.Server
	postgres    *pgxpool.Pool
	redis       *goredis.Client
	s3          *minio.Client
	hub         *ws.Hub
	seedJob     *seedbots.Job
	httpRouter  http.Handler
	storageMode string
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	// Postgres is preferred; an unreachable database degrades to the
	// in-memory store instead of refusing to start.
	pool, storageMode := connectPostgres(ctx, cfg.Postgres, log)
	st := buildStores(pool)

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	rateRepo := redrepo.NewRateRepo(redisClient)
	presenceRepo := redrepo.NewPresenceRepo(redisClient, 2*cfg.WS.PongTimeout)

	var completions botssvc.CompletionClient
	if cfg.OpenAI.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
		clientCfg.HTTPClient = httpclient.New(cfg.OpenAI.Timeout)
		completions = openai.NewClientWithConfig(clientCfg)
	} else {
		log.Warn("openai api key not set, bot replies fall back to canned phrases")
	}

	usersService := userssvc.NewService(st.users)
	postsService := postssvc.NewService(postssvc.Dependencies{
		Posts:    st.posts,
		Comments: st.comments,
		Likes:    st.likes,
		Users:    st.users,
	})
	botsService := botssvc.NewService(botssvc.Dependencies{
		Store:       st.bots,
		Completions: completions,
		Logger:      log,
	}, botssvc.Config{
		MinPool:     cfg.Bots.MinPool,
		MinBirthAge: cfg.Bots.MinBirthAge,
		MaxBirthAge: cfg.Bots.MaxBirthAge,
		PromptTurns: cfg.Bots.PromptTurns,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
	})
	matchingService := matchingsvc.NewService(matchingsvc.Dependencies{
		Users:   st.users,
		Matches: st.matches,
		Bots:    botsService,
		Logger:  log,
	})
	chatService := chatsvc.NewService(chatsvc.Dependencies{
		Matches:  st.matches,
		Messages: st.messages,
		Bots:     botsService,
		Logger:   log,
	}, chatsvc.Config{
		HistoryLimit: cfg.Chat.HistoryLimit,
	})
	matchLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.MatchFindsPerMinute, time.Minute, log)

	var s3Client *minio.Client
	var mediaService *mediasvc.Service
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Region:    cfg.S3.Region,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, media uploads disabled", zap.Error(err))
	} else {
		s3Client = c
		mediaService = mediasvc.NewService(c, cfg.S3.Bucket)
	}

	hub := ws.NewHub(ws.Dependencies{
		Chat:     chatService,
		Presence: presenceRepo,
		Logger:   log,
	}, ws.Config{
		ReplyDelayMin:   cfg.Chat.ReplyDelayMin,
		ReplyDelayMax:   cfg.Chat.ReplyDelayMax,
		WriteTimeout:    cfg.WS.WriteTimeout,
		PongTimeout:     cfg.WS.PongTimeout,
		PingInterval:    cfg.WS.PingInterval,
		MaxMessageBytes: cfg.WS.MaxMessageBytes,
		SendBuffer:      cfg.WS.SendBuffer,
	})

	RegisterRoutes(r, Dependencies{
		UsersService:    usersService,
		PostsService:    postsService,
		MatchingService: matchingService,
		ChatService:     chatService,
		MediaService:    mediaService,
		MatchLimiter:    matchLimiter,
		Presence:        presenceRepo,
		Hub:             hub,
		Logger:          log,
		StorageMode:     storageMode,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:         cfg,
		logger:      log,
		server:      server,
		postgres:    pool,
		redis:       redisClient,
		s3:          s3Client,
		hub:         hub,
		seedJob:     seedbots.New(botsService, time.Hour, log),
		httpRouter:  r,
		storageMode: storageMode,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if err := a.seedJob.Seed(ctx); err != nil {
		a.logger.Warn("initial bot seeding failed", zap.Error(err))
	}
	go func() {
		if err := a.seedJob.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("bot seed job stopped", zap.Error(err))
		}
	}()

	a.logger.Info("api server started",
		zap.String("addr", a.cfg.HTTP.Addr),
		zap.String("storage", a.storageMode),
	)
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	a.hub.Shutdown(ctx)
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

// StorageMode reports which backend serves persistence, "postgres" or
// "memory".
func (a *App) StorageMode() string {
	return a.storageMode
}

func connectPostgres(ctx context.Context, cfg config.PostgresConfig, log *zap.Logger) (*pgxpool.Pool, string) {
	pool, err := pgrepo.NewPool(ctx, cfg.DSN, cfg.MaxConns)
	if err != nil {
		log.Warn("postgres init failed, continuing with in-memory storage", zap.Error(err))
		return nil, "memory"
	}

	pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		log.Warn("postgres unreachable, continuing with in-memory storage", zap.Error(err))
		pool.Close()
		return nil, "memory"
	}

	return pool, "postgres"
}

func buildStores(pool *pgxpool.Pool) stores {
	if pool == nil {
		mem := memory.NewStore()
		return stores{
			users:    mem,
			bots:     mem,
			posts:    mem,
			comments: mem,
			likes:    mem,
			matches:  mem,
			messages: mem,
		}
	}

	userRepo := pgrepo.NewUserRepo(pool)
	return stores{
		users:    userRepo,
		bots:     userRepo,
		posts:    pgrepo.NewPostRepo(pool),
		comments: pgrepo.NewCommentRepo(pool),
		likes:    pgrepo.NewLikeRepo(pool),
		matches:  pgrepo.NewMatchRepo(pool),
		messages: pgrepo.NewChatMessageRepo(pool),
	}
}
