package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/chornado/internal/auth"
	"github.com/chornado/internal/handler"
	"github.com/chornado/internal/middleware"
	"github.com/chornado/internal/store"
	ws "github.com/chornado/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	parentH      *handler.ParentHandler
	childH       *handler.ChildHandler
	accountH     *handler.AccountHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	parentStore := store.NewParentStore(db)
	childStore := store.NewChildStore(db)
	choreStore := store.NewChoreStore(db)
	assignmentStore := store.NewAssignmentStore(db)
	rewardStore := store.NewRewardStore(db)
	notificationStore := store.NewNotificationStore(db)
	sessionStore := store.NewSessionStore(db)

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(parentStore, childStore, sessionStore, logger.With("component", "auth")),
		parentH:      handler.NewParentHandler(parentStore, childStore, choreStore, assignmentStore, rewardStore, notificationStore, hub, logger.With("component", "parent")),
		childH:       handler.NewChildHandler(childStore, choreStore, assignmentStore, rewardStore, notificationStore, hub, logger.With("component", "child")),
		accountH:     handler.NewAccountHandler(parentStore, childStore, sessionStore, logger.With("component", "account")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /register", s.authH.RegisterPage)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("POST /logout", s.authH.Logout)
	mux.HandleFunc("POST /pass_reset/{id}", s.accountH.PassReset)
	mux.HandleFunc("POST /delete_parent/{id}", s.accountH.DeleteParent)
	mux.Handle("POST /delete_child/{id}", middleware.RequireParent(http.HandlerFunc(s.accountH.DeleteChild)))

	// Parent pages and actions
	parentMux := http.NewServeMux()
	parentMux.HandleFunc("GET /parent/home", s.parentH.Home)
	parentMux.HandleFunc("GET /parent/children", s.parentH.ChildrenPage)
	parentMux.HandleFunc("POST /parent/children", s.parentH.RegisterChild)
	parentMux.HandleFunc("POST /parent/children/{id}/points", s.parentH.AdjustPoints)
	parentMux.HandleFunc("GET /parent/chores", s.parentH.ChoresPage)
	parentMux.HandleFunc("POST /parent/chores", s.parentH.CreateChore)
	parentMux.HandleFunc("POST /parent/chores/{id}", s.parentH.UpdateChore)
	parentMux.HandleFunc("POST /parent/chores/{id}/delete", s.parentH.DeleteChore)
	parentMux.HandleFunc("POST /parent/assignments", s.parentH.AssignChore)
	parentMux.HandleFunc("POST /parent/assignments/{id}/approve", s.parentH.ApproveAssignment)
	parentMux.HandleFunc("POST /parent/assignments/{id}/reject", s.parentH.RejectAssignment)
	parentMux.HandleFunc("POST /parent/assignments/{id}/delete", s.parentH.DeleteAssignment)
	parentMux.HandleFunc("GET /parent/rewards", s.parentH.RewardsPage)
	parentMux.HandleFunc("POST /parent/rewards", s.parentH.CreateReward)
	parentMux.HandleFunc("POST /parent/rewards/{id}", s.parentH.UpdateReward)
	parentMux.HandleFunc("POST /parent/rewards/{id}/delete", s.parentH.DeleteReward)
	parentMux.HandleFunc("POST /parent/rewards/deliver/{id}", s.parentH.DeliverReward)
	mux.Handle("/parent/", middleware.RequireParent(parentMux))

	// Child pages and actions
	childMux := http.NewServeMux()
	childMux.HandleFunc("GET /child/home", s.childH.Home)
	childMux.HandleFunc("POST /child/chores/{id}/complete", s.childH.CompleteChore)
	childMux.HandleFunc("POST /child/notifications/{id}", s.childH.AcknowledgeNotification)
	childMux.HandleFunc("GET /child/rewards", s.childH.RewardsPage)
	childMux.HandleFunc("POST /child/rewards/{id}", s.childH.PurchaseReward)
	mux.Handle("/child/", middleware.RequireChild(childMux))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}

// index sends a signed-in account to the home page for its role.
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if auth.IsParent(r.Context()) {
		http.Redirect(w, r, "/parent/home", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/child/home", http.StatusSeeOther)
}
