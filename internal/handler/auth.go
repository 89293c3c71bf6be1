package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/chornado/internal/model"
	"github.com/chornado/internal/store"
	"github.com/chornado/internal/validate"
)

const sessionCookieName = "chornado_session"

type AuthHandler struct {
	parentStore  *store.ParentStore
	childStore   *store.ChildStore
	sessionStore *store.SessionStore
	templates    *template.Template
	logger       *slog.Logger
}

func NewAuthHandler(ps *store.ParentStore, cs *store.ChildStore, ss *store.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		parentStore:  ps,
		childStore:   cs,
		sessionStore: ss,
		templates:    newTemplates(),
		logger:       logger,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	render(h.logger, h.templates, w, "login.html", map[string]any{
		"Title": "Login",
		"Flash": popFlash(w, r),
	})
}

// Login checks the credentials against parents first, then children. Both
// account kinds share one login form.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := validate.New(r.PostForm)
	username := form.String("username", "Username is required")
	password := form.String("password", "Password is required")
	if !form.Valid() {
		render(h.logger, h.templates, w, "login.html", map[string]any{
			"Title":  "Login",
			"Errors": form.Errors,
		})
		return
	}

	role, userID, hash, err := h.lookup(username)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		render(h.logger, h.templates, w, "login.html", map[string]any{
			"Title": "Login",
			"Flash": "Please enter correct username and password",
		})
		return
	}

	sess, err := h.sessionStore.Create(role, userID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if role == model.RoleParent {
		http.Redirect(w, r, "/parent/home", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/child/home", http.StatusSeeOther)
}

func (h *AuthHandler) lookup(username string) (role string, userID int64, hash string, err error) {
	parent, err := h.parentStore.GetByUsername(username)
	if err != nil {
		return "", 0, "", err
	}
	if parent != nil {
		return model.RoleParent, parent.ID, parent.PasswordHash, nil
	}
	child, err := h.childStore.GetByUsername(username)
	if err != nil {
		return "", 0, "", err
	}
	if child != nil {
		return model.RoleChild, child.ID, child.PasswordHash, nil
	}
	return "", 0, "", nil
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	render(h.logger, h.templates, w, "register.html", map[string]any{
		"Title": "Register",
		"Flash": popFlash(w, r),
	})
}

// Register creates a parent account. Child accounts are created by a parent
// from the children page.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := validate.New(r.PostForm)
	username := form.String("username", "Email is required")
	form.Email("username", username, "Must be a valid email address")
	form.Length("username", username, 8, 64, "Email must be between 8 and 64 characters")
	firstName := form.String("first_name", "First name is required")
	form.Length("first_name", firstName, 2, 64, "First name must be between 2 and 64 characters")
	lastName := form.String("last_name", "Last name is required")
	form.Length("last_name", lastName, 2, 64, "Last name must be between 2 and 64 characters")
	password := form.String("password", "Password is required")
	form.Length("password", password, 8, 64, "Password must be between 8 and 64 characters")
	confirm := form.Optional("confirm_password")
	form.EqualTo("confirm_password", confirm, password, "Passwords must match")

	if form.Valid() {
		taken, err := h.parentStore.UsernameTaken(username)
		if err != nil {
			h.logger.Error("register lookup", "error", err)
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		if taken {
			form.Errors["username"] = "Username already exists"
		}
	}

	if !form.Valid() {
		render(h.logger, h.templates, w, "register.html", map[string]any{
			"Title":  "Register",
			"Errors": form.Errors,
			"Form":   r.PostForm,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.parentStore.Create(username, firstName, lastName, string(hash)); err != nil {
		h.logger.Error("create parent", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "Account created. Please login.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.sessionStore.DeleteByToken(c.Value); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
