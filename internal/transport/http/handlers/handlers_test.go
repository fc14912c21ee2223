package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/talelapse/a-board-view/internal/repo/memory"
	botssvc "github.com/talelapse/a-board-view/internal/services/bots"
	chatsvc "github.com/talelapse/a-board-view/internal/services/chat"
	matchingsvc "github.com/talelapse/a-board-view/internal/services/matching"
	postssvc "github.com/talelapse/a-board-view/internal/services/posts"
	ratesvc "github.com/talelapse/a-board-view/internal/services/rate"
	userssvc "github.com/talelapse/a-board-view/internal/services/users"
)

// blockedWindow always reports the counter above any limit.
type blockedWindow struct{}

func (blockedWindow) IncrementWindow(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 1 << 20, 30 * time.Second, nil
}

type routerOptions struct {
	limiter  *ratesvc.Limiter
	presence PresenceChecker
}

func newTestRouter(t *testing.T, opts routerOptions) (*chi.Mux, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	usersService := userssvc.NewService(store)
	postsService := postssvc.NewService(postssvc.Dependencies{
		Posts:    store,
		Comments: store,
		Likes:    store,
		Users:    store,
	})
	botsService := botssvc.NewService(botssvc.Dependencies{Store: store}, botssvc.Config{})
	matchingService := matchingsvc.NewService(matchingsvc.Dependencies{
		Users:   store,
		Matches: store,
		Bots:    botsService,
	})
	chatService := chatsvc.NewService(chatsvc.Dependencies{
		Matches:  store,
		Messages: store,
		Bots:     botsService,
	}, chatsvc.Config{})

	usersHandler := NewUsersHandler(usersService)
	postsHandler := NewPostsHandler(postsService)
	matchesHandler := NewMatchesHandler(matchingService, chatService, opts.limiter, opts.presence)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/users", usersHandler.Create)
		r.Get("/users/{id}", usersHandler.Get)
		r.Get("/posts", postsHandler.List)
		r.Post("/posts", postsHandler.Create)
		r.Get("/posts/{postID}/comments", postsHandler.ListComments)
		r.Post("/posts/{postID}/comments", postsHandler.CreateComment)
		r.Get("/posts/{postID}/likes", postsHandler.ListLikes)
		r.Post("/posts/{postID}/likes/toggle", postsHandler.ToggleLike)
		r.Post("/matches/find", matchesHandler.Find)
		r.Post("/matches/find-ai", matchesHandler.FindAI)
		r.Get("/matches/{id}", matchesHandler.List)
		r.Get("/matches/{id}/messages", matchesHandler.Messages)
	})
	return r, store
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
