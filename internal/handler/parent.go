package handler

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/chornado/internal/auth"
	"github.com/chornado/internal/store"
	"github.com/chornado/internal/validate"
	"github.com/chornado/internal/websocket"
)

type ParentHandler struct {
	parentStore       *store.ParentStore
	childStore        *store.ChildStore
	choreStore        *store.ChoreStore
	assignmentStore   *store.AssignmentStore
	rewardStore       *store.RewardStore
	notificationStore *store.NotificationStore
	hub               *websocket.Hub
	templates         *template.Template
	logger            *slog.Logger
}

func NewParentHandler(
	ps *store.ParentStore,
	cs *store.ChildStore,
	chs *store.ChoreStore,
	as *store.AssignmentStore,
	rs *store.RewardStore,
	ns *store.NotificationStore,
	hub *websocket.Hub,
	logger *slog.Logger,
) *ParentHandler {
	return &ParentHandler{
		parentStore:       ps,
		childStore:        cs,
		choreStore:        chs,
		assignmentStore:   as,
		rewardStore:       rs,
		notificationStore: ns,
		hub:               hub,
		templates:         newTemplates(),
		logger:            logger,
	}
}

func (h *ParentHandler) notifyChild(childID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.NotifyChild(childID, msg)
	}
}

// Home shows the parent dashboard: children with their balances and the
// pending notification feed.
func (h *ParentHandler) Home(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())

	parent, err := h.parentStore.GetByID(parentID)
	if err != nil || parent == nil {
		h.logger.Error("load parent", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	children, err := h.childStore.ListByParent(parentID)
	if err != nil {
		h.logger.Error("list children", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	notifications, err := h.notificationStore.ListForParent(parentID)
	if err != nil {
		h.logger.Error("list notifications", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	render(h.logger, h.templates, w, "parent_home.html", map[string]any{
		"Title":         "Home",
		"Parent":        parent,
		"Children":      children,
		"Notifications": notifications,
		"Flash":         popFlash(w, r),
	})
}

func (h *ParentHandler) ChildrenPage(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	children, err := h.childStore.ListByParent(parentID)
	if err != nil {
		h.logger.Error("list children", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	render(h.logger, h.templates, w, "children.html", map[string]any{
		"Title":    "Children",
		"Children": children,
		"Flash":    popFlash(w, r),
	})
}

// RegisterChild creates a child account under the signed-in parent. Child
// usernames are plain strings, unlike parent usernames which must be emails.
func (h *ParentHandler) RegisterChild(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := validate.New(r.PostForm)
	username := form.String("username", "Username is required")
	form.Length("username", username, 6, 64, "Username must be between 6 and 64 characters")
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
			h.logger.Error("child username lookup", "error", err)
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		if taken {
			form.Errors["username"] = "Username already exists"
		}
	}

	if !form.Valid() {
		children, err := h.childStore.ListByParent(parentID)
		if err != nil {
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		render(h.logger, h.templates, w, "children.html", map[string]any{
			"Title":    "Children",
			"Children": children,
			"Errors":   form.Errors,
			"Form":     r.PostForm,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.childStore.Create(username, firstName, lastName, string(hash), parentID); err != nil {
		h.logger.Error("create child", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	setFlash(w, fmt.Sprintf("Account created for %s", firstName))
	http.Redirect(w, r, "/parent/children", http.StatusSeeOther)
}

// AdjustPoints applies a manual balance correction to one child. The delta
// may be negative and the balance is allowed to go below zero.
func (h *ParentHandler) AdjustPoints(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	childID, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := validate.New(r.PostForm)
	delta := form.Int("points", -9999, 9999, "Points must be between -9999 and 9999")
	if !form.Valid() {
		setFlash(w, form.Errors["points"])
		http.Redirect(w, r, "/parent/children", http.StatusSeeOther)
		return
	}

	child, err := h.childStore.GetByID(childID)
	if err != nil {
		h.logger.Error("load child", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !auth.OwnsChild(parentID, child) {
		http.NotFound(w, r)
		return
	}

	if _, err := h.childStore.AdjustPoints(childID, delta); err != nil {
		h.logger.Error("adjust points", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	h.notifyChild(childID, websocket.NewMessage("points", "adjusted", childID))
	setFlash(w, fmt.Sprintf("Points updated for %s", child.FirstName))
	http.Redirect(w, r, "/parent/children", http.StatusSeeOther)
}

func (h *ParentHandler) ChoresPage(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	chores, err := h.choreStore.ListByParent(parentID)
	if err != nil {
		h.logger.Error("list chores", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	children, err := h.childStore.ListByParent(parentID)
	if err != nil {
		h.logger.Error("list children", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	render(h.logger, h.templates, w, "parent_chores.html", map[string]any{
		"Title":    "Chores",
		"Chores":   chores,
		"Children": children,
		"Flash":    popFlash(w, r),
	})
}

func (h *ParentHandler) choreForm(r *http.Request) (string, int, *validate.Form, error) {
	if err := r.ParseForm(); err != nil {
		return "", 0, nil, err
	}
	form := validate.New(r.PostForm)
	name := form.String("name", "Name is required")
	form.Length("name", name, 2, 64, "Name must be between 2 and 64 characters")
	value := form.Int("value", 1, 9999, "Value must be between 1 and 9999")
	return name, value, form, nil
}

func (h *ParentHandler) CreateChore(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	name, value, form, err := h.choreForm(r)
	if err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	if !form.Valid() {
		setFlash(w, firstError(form.Errors))
		http.Redirect(w, r, "/parent/chores", http.StatusSeeOther)
		return
	}

	if _, err := h.choreStore.Create(name, value, parentID); err != nil {
		h.logger.Error("create chore", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/parent/chores", http.StatusSeeOther)
}

func (h *ParentHandler) UpdateChore(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	name, value, form, err := h.choreForm(r)
	if err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	if !form.Valid() {
		setFlash(w, firstError(form.Errors))
		http.Redirect(w, r, "/parent/chores", http.StatusSeeOther)
		return
	}

	chore, err := h.choreStore.GetByID(id)
	if err != nil {
		h.logger.Error("load chore", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !auth.OwnsChore(parentID, chore) {
		http.NotFound(w, r)
		return
	}

	if _, err := h.choreStore.Update(id, name, value); err != nil {
		h.logger.Error("update chore", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/parent/chores", http.StatusSeeOther)
}

// DeleteChore removes a chore and every assignment of it, including those
// mid-review.
func (h *ParentHandler) DeleteChore(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	chore, err := h.choreStore.GetByID(id)
	if err != nil {
		h.logger.Error("load chore", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !auth.OwnsChore(parentID, chore) {
		http.NotFound(w, r)
		return
	}

	if err := h.choreStore.Delete(id); err != nil {
		h.logger.Error("delete chore", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/parent/chores", http.StatusSeeOther)
}

// AssignChore gives one of the parent's chores to one of their children.
// A chore can be assigned to a child only once at a time.
func (h *ParentHandler) AssignChore(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := validate.New(r.PostForm)
	choreID := form.ID("chore_id", "Chore is required")
	childID := form.ID("child_id", "Child is required")
	if !form.Valid() {
		setFlash(w, firstError(form.Errors))
		http.Redirect(w, r, "/parent/chores", http.StatusSeeOther)
		return
	}

	chore, err := h.choreStore.GetByID(choreID)
	if err != nil {
		h.logger.Error("load chore", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	child, err := h.childStore.GetByID(childID)
	if err != nil {
		h.logger.Error("load child", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !auth.OwnsChore(parentID, chore) || !auth.OwnsChild(parentID, child) {
		http.NotFound(w, r)
		return
	}

	if _, err := h.assignmentStore.Assign(choreID, childID); err != nil {
		if errors.Is(err, store.ErrDuplicateAssignment) {
			setFlash(w, "This chore has already been assigned to this child.")
			http.Redirect(w, r, "/parent/chores", http.StatusSeeOther)
			return
		}
		h.logger.Error("assign chore", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	h.notifyChild(childID, websocket.NewMessage("assigned_chore", "created", choreID))
	setFlash(w, fmt.Sprintf("%s assigned to %s", chore.Name, child.FirstName))
	http.Redirect(w, r, "/parent/chores", http.StatusSeeOther)
}

// ApproveAssignment accepts a completed chore and credits its value to the
// child's balance.
func (h *ParentHandler) ApproveAssignment(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	assignment, err := h.assignmentStore.GetByID(id)
	if err != nil {
		h.logger.Error("load assignment", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if assignment == nil {
		http.NotFound(w, r)
		return
	}
	child, err := h.childStore.GetByID(assignment.ChildID)
	if err != nil {
		h.logger.Error("load child", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !auth.OwnsAssignment(parentID, assignment, child) {
		http.NotFound(w, r)
		return
	}

	if err := h.assignmentStore.Approve(id); err != nil {
		if errors.Is(err, store.ErrWrongState) || errors.Is(err, store.ErrNotFound) {
			setFlash(w, "This chore is not waiting for review.")
			http.Redirect(w, r, "/parent/home", http.StatusSeeOther)
			return
		}
		h.logger.Error("approve assignment", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	h.notifyChild(child.ID, websocket.NewMessage("assigned_chore", "approved", id))
	http.Redirect(w, r, "/parent/home", http.StatusSeeOther)
}

func (h *ParentHandler) RejectAssignment(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	assignment, err := h.assignmentStore.GetByID(id)
	if err != nil {
		h.logger.Error("load assignment", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if assignment == nil {
		http.NotFound(w, r)
		return
	}
	child, err := h.childStore.GetByID(assignment.ChildID)
	if err != nil {
		h.logger.Error("load child", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !auth.OwnsAssignment(parentID, assignment, child) {
		http.NotFound(w, r)
		return
	}
	chore, err := h.choreStore.GetByID(assignment.ChoreID)
	if err != nil || chore == nil {
		h.logger.Error("load chore", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if err := h.assignmentStore.Reject(id); err != nil {
		if errors.Is(err, store.ErrWrongState) || errors.Is(err, store.ErrNotFound) {
			setFlash(w, "This chore is not waiting for review.")
			http.Redirect(w, r, "/parent/home", http.StatusSeeOther)
			return
		}
		h.logger.Error("reject assignment", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	h.notifyChild(child.ID, websocket.NewMessage("assigned_chore", "rejected", id))
	setFlash(w, fmt.Sprintf("%s has been sent back to %s", chore.Name, child.FirstName))
	http.Redirect(w, r, "/parent/home", http.StatusSeeOther)
}

// DeleteAssignment withdraws an assignment in any state without awarding
// points.
func (h *ParentHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	assignment, err := h.assignmentStore.GetByID(id)
	if err != nil {
		h.logger.Error("load assignment", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if assignment == nil {
		http.NotFound(w, r)
		return
	}
	child, err := h.childStore.GetByID(assignment.ChildID)
	if err != nil {
		h.logger.Error("load child", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !auth.OwnsAssignment(parentID, assignment, child) {
		http.NotFound(w, r)
		return
	}

	if err := h.assignmentStore.Delete(id); err != nil {
		h.logger.Error("delete assignment", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	h.notifyChild(child.ID, websocket.NewMessage("assigned_chore", "deleted", id))
	http.Redirect(w, r, "/parent/chores", http.StatusSeeOther)
}

func (h *ParentHandler) RewardsPage(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	rewards, err := h.rewardStore.ListByParent(parentID)
	if err != nil {
		h.logger.Error("list rewards", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	render(h.logger, h.templates, w, "parent_rewards.html", map[string]any{
		"Title":   "Rewards",
		"Rewards": rewards,
		"Flash":   popFlash(w, r),
	})
}

func (h *ParentHandler) rewardForm(r *http.Request) (string, int, *validate.Form, error) {
	if err := r.ParseForm(); err != nil {
		return "", 0, nil, err
	}
	form := validate.New(r.PostForm)
	name := form.String("name", "Name is required")
	form.Length("name", name, 2, 64, "Name must be between 2 and 64 characters")
	cost := form.Int("cost", 1, 9999, "Cost must be between 1 and 9999")
	return name, cost, form, nil
}

func (h *ParentHandler) CreateReward(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	name, cost, form, err := h.rewardForm(r)
	if err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	if !form.Valid() {
		setFlash(w, firstError(form.Errors))
		http.Redirect(w, r, "/parent/rewards", http.StatusSeeOther)
		return
	}

	if _, err := h.rewardStore.Create(name, cost, parentID); err != nil {
		h.logger.Error("create reward", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/parent/rewards", http.StatusSeeOther)
}

func (h *ParentHandler) UpdateReward(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	name, cost, form, err := h.rewardForm(r)
	if err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	if !form.Valid() {
		setFlash(w, firstError(form.Errors))
		http.Redirect(w, r, "/parent/rewards", http.StatusSeeOther)
		return
	}

	reward, err := h.rewardStore.GetByID(id)
	if err != nil {
		h.logger.Error("load reward", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !auth.OwnsReward(parentID, reward) {
		http.NotFound(w, r)
		return
	}

	if _, err := h.rewardStore.Update(id, name, cost); err != nil {
		h.logger.Error("update reward", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/parent/rewards", http.StatusSeeOther)
}

func (h *ParentHandler) DeleteReward(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	reward, err := h.rewardStore.GetByID(id)
	if err != nil {
		h.logger.Error("load reward", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !auth.OwnsReward(parentID, reward) {
		http.NotFound(w, r)
		return
	}

	if err := h.rewardStore.Delete(id); err != nil {
		h.logger.Error("delete reward", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/parent/rewards", http.StatusSeeOther)
}

// DeliverReward marks a purchased reward as handed over. The id is the
// purchase notification on the parent's feed; delivering consumes it and
// tells the child.
func (h *ParentHandler) DeliverReward(w http.ResponseWriter, r *http.Request) {
	parentID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	n, err := h.notificationStore.GetParentByID(id)
	if err != nil {
		h.logger.Error("load notification", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !auth.OwnsParentNotification(parentID, n) {
		http.NotFound(w, r)
		return
	}

	if err := h.rewardStore.Deliver(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("deliver reward", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if n.ChildID != nil {
		h.notifyChild(*n.ChildID, websocket.NewMessage("reward", "delivered", id))
	}
	http.Redirect(w, r, "/parent/home", http.StatusSeeOther)
}

func firstError(errs validate.Errors) string {
	for _, msg := range errs {
		return msg
	}
	return "Invalid input"
}
