package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/chornado/internal/auth"
	"github.com/chornado/internal/model"
	"github.com/chornado/internal/store"
	"github.com/chornado/internal/validate"
)

// AccountHandler covers account removal and password resets, which are shared
// between the parent and child surfaces.
type AccountHandler struct {
	parentStore  *store.ParentStore
	childStore   *store.ChildStore
	sessionStore *store.SessionStore
	templates    *template.Template
	logger       *slog.Logger
}

func NewAccountHandler(ps *store.ParentStore, cs *store.ChildStore, ss *store.SessionStore, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		parentStore:  ps,
		childStore:   cs,
		sessionStore: ss,
		templates:    newTemplates(),
		logger:       logger,
	}
}

// DeleteParent removes the signed-in parent's account together with their
// children, chores, rewards, assignments, and notifications.
func (h *AccountHandler) DeleteParent(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	// Parents may only delete themselves.
	if actor.Role != model.RoleParent || actor.UserID != id {
		http.NotFound(w, r)
		return
	}

	if err := h.parentStore.Delete(id); err != nil {
		h.logger.Error("delete parent", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	clearSessionCookie(w)
	setFlash(w, "Account deleted")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// DeleteChild removes one of the parent's children and everything attached
// to the account.
func (h *AccountHandler) DeleteChild(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	child, err := h.childStore.GetByID(id)
	if err != nil {
		h.logger.Error("load child", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !auth.OwnsChild(parentID, child) {
		http.NotFound(w, r)
		return
	}

	if err := h.childStore.Delete(id); err != nil {
		h.logger.Error("delete child", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "Account deleted")
	http.Redirect(w, r, "/parent/children", http.StatusSeeOther)
}

// PassReset changes a password. A parent may reset their own or any of their
// children's; a child only their own. Every session for the account is
// revoked so stolen cookies stop working.
func (h *AccountHandler) PassReset(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := validate.New(r.PostForm)
	role := form.String("role", "Role is required")
	if role != model.RoleParent && role != model.RoleChild {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}
	password := form.String("password", "Password is required")
	form.Length("password", password, 8, 64, "Password must be between 8 and 64 characters")
	confirm := form.Optional("confirm_password")
	form.EqualTo("confirm_password", confirm, password, "Passwords must match")

	if !h.canReset(actor, role, id) {
		http.NotFound(w, r)
		return
	}

	backTo := "/parent/children"
	if actor.Role == model.RoleChild {
		backTo = "/child/home"
	}

	if !form.Valid() {
		setFlash(w, firstError(form.Errors))
		http.Redirect(w, r, backTo, http.StatusSeeOther)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if role == model.RoleParent {
		err = h.parentStore.UpdatePassword(id, string(hash))
	} else {
		err = h.childStore.UpdatePassword(id, string(hash))
	}
	if err != nil {
		h.logger.Error("update password", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if err := h.sessionStore.DeleteByUser(role, id); err != nil {
		h.logger.Error("revoke sessions", "error", err)
	}

	// Resetting your own password signs you out with the rest of your sessions.
	if actor.Role == role && actor.UserID == id {
		clearSessionCookie(w)
		setFlash(w, "Password updated. Please login.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	setFlash(w, "Password updated")
	http.Redirect(w, r, backTo, http.StatusSeeOther)
}

func (h *AccountHandler) canReset(actor auth.Actor, role string, id int64) bool {
	if actor.Role == model.RoleChild {
		return role == model.RoleChild && actor.UserID == id
	}
	if role == model.RoleParent {
		return actor.UserID == id
	}
	child, err := h.childStore.GetByID(id)
	if err != nil {
		h.logger.Error("load child", "error", err)
		return false
	}
	return auth.OwnsChild(actor.UserID, child)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}
