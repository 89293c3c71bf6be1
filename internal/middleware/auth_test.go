package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chornado/internal/auth"
	"github.com/chornado/internal/database"
	"github.com/chornado/internal/model"
	"github.com/chornado/internal/store"
)

func setupAuthMiddlewareDB(t *testing.T) (*store.SessionStore, *store.ParentStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewSessionStore(db), store.NewParentStore(db)
}

func TestRequireAuthNoCookie(t *testing.T) {
	ss, _ := setupAuthMiddlewareDB(t)

	handler := RequireAuth(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	ss, _ := setupAuthMiddlewareDB(t)

	handler := RequireAuth(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "invalid-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestRequireAuthValidSession(t *testing.T) {
	ss, ps := setupAuthMiddlewareDB(t)

	p, err := ps.Create("alice@example.com", "Alice", "Smith", "hash")
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	sess, err := ss.Create(model.RoleParent, p.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var gotActor auth.Actor
	handler := RequireAuth(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("expected Actor in request context")
		}
		gotActor = a
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotActor.UserID != p.ID {
		t.Errorf("UserID = %d, want %d", gotActor.UserID, p.ID)
	}
	if gotActor.Role != model.RoleParent {
		t.Errorf("Role = %q, want %q", gotActor.Role, model.RoleParent)
	}
}

func TestRequireParentAllowed(t *testing.T) {
	ctx := auth.WithActor(context.Background(), auth.Actor{Role: model.RoleParent})
	req := httptest.NewRequest("GET", "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler := RequireParent(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireParentRefusesChild(t *testing.T) {
	ctx := auth.WithActor(context.Background(), auth.Actor{Role: model.RoleChild})
	req := httptest.NewRequest("GET", "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler := RequireParent(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestRequireChildRefusesParent(t *testing.T) {
	ctx := auth.WithActor(context.Background(), auth.Actor{Role: model.RoleParent})
	req := httptest.NewRequest("GET", "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler := RequireChild(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}
