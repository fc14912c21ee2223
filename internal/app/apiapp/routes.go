package apiapp

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	chatsvc "github.com/talelapse/a-board-view/internal/services/chat"
	matchingsvc "github.com/talelapse/a-board-view/internal/services/matching"
	mediasvc "github.com/talelapse/a-board-view/internal/services/media"
	postssvc "github.com/talelapse/a-board-view/internal/services/posts"
	ratesvc "github.com/talelapse/a-board-view/internal/services/rate"
	userssvc "github.com/talelapse/a-board-view/internal/services/users"
	"github.com/talelapse/a-board-view/internal/transport/http/handlers"
	"github.com/talelapse/a-board-view/internal/transport/ws"
)

type Dependencies struct {
	UsersService    *userssvc.Service
	PostsService    *postssvc.Service
	MatchingService *matchingsvc.Service
	ChatService     *chatsvc.Service
	MediaService    *mediasvc.Service
	MatchLimiter    *ratesvc.Limiter
	Presence        handlers.PresenceChecker
	Hub             *ws.Hub
	Logger          *zap.Logger
	StorageMode     string
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.StorageMode)
	usersHandler := handlers.NewUsersHandler(deps.UsersService)
	postsHandler := handlers.NewPostsHandler(deps.PostsService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchingService, deps.ChatService, deps.MatchLimiter, deps.Presence)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	wsHandler := ws.NewHandler(deps.Hub, deps.Logger)

	r.Get("/healthz", healthHandler.Handle)
	r.Handle("/ws", wsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		r.Route("/users", func(r chi.Router) {
			r.Post("/", usersHandler.Create)
			r.Get("/{id}", usersHandler.Get)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postsHandler.List)
			r.Post("/", postsHandler.Create)
			r.Get("/{postID}/comments", postsHandler.ListComments)
			r.Post("/{postID}/comments", postsHandler.CreateComment)
			r.Get("/{postID}/likes", postsHandler.ListLikes)
			r.Post("/{postID}/likes/toggle", postsHandler.ToggleLike)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/find", matchesHandler.Find)
			r.Post("/find-ai", matchesHandler.FindAI)
			// chi requires one param name per segment position, so both
			// routes read {id}: a user id for the list, a match id for
			// the message history.
			r.Get("/{id}", matchesHandler.List)
			r.Get("/{id}/messages", matchesHandler.Messages)
		})

		r.Post("/media/presign", mediaHandler.Presign)
	})
}
