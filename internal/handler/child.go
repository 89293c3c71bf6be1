package handler

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/chornado/internal/auth"
	"github.com/chornado/internal/store"
	"github.com/chornado/internal/websocket"
)

type ChildHandler struct {
	childStore        *store.ChildStore
	choreStore        *store.ChoreStore
	assignmentStore   *store.AssignmentStore
	rewardStore       *store.RewardStore
	notificationStore *store.NotificationStore
	hub               *websocket.Hub
	templates         *template.Template
	logger            *slog.Logger
}

func NewChildHandler(
	cs *store.ChildStore,
	chs *store.ChoreStore,
	as *store.AssignmentStore,
	rs *store.RewardStore,
	ns *store.NotificationStore,
	hub *websocket.Hub,
	logger *slog.Logger,
) *ChildHandler {
	return &ChildHandler{
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

func (h *ChildHandler) notifyParent(parentID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.NotifyParent(parentID, msg)
	}
}

// Home shows the child's chore list, point balance, and notification feed.
func (h *ChildHandler) Home(w http.ResponseWriter, r *http.Request) {
	childID := auth.UserID(r.Context())

	child, err := h.childStore.GetByID(childID)
	if err != nil || child == nil {
		h.logger.Error("load child", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	assignments, err := h.assignmentStore.ListByChild(childID)
	if err != nil {
		h.logger.Error("list assignments", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	notifications, err := h.notificationStore.ListForChild(childID)
	if err != nil {
		h.logger.Error("list notifications", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	render(h.logger, h.templates, w, "child_home.html", map[string]any{
		"Title":         "Home",
		"Child":         child,
		"Assignments":   assignments,
		"Notifications": notifications,
		"Flash":         popFlash(w, r),
	})
}

// CompleteChore marks one of the child's active chores as done, putting it in
// front of the parent for review.
func (h *ChildHandler) CompleteChore(w http.ResponseWriter, r *http.Request) {
	childID := auth.UserID(r.Context())
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
	if !auth.IsAssignee(childID, assignment) {
		http.NotFound(w, r)
		return
	}
	chore, err := h.choreStore.GetByID(assignment.ChoreID)
	if err != nil || chore == nil {
		h.logger.Error("load chore", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if err := h.assignmentStore.Complete(id); err != nil {
		if errors.Is(err, store.ErrWrongState) || errors.Is(err, store.ErrNotFound) {
			setFlash(w, "This chore cannot be completed right now.")
			http.Redirect(w, r, "/child/home", http.StatusSeeOther)
			return
		}
		h.logger.Error("complete assignment", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	h.notifyParent(chore.ParentID, websocket.NewMessage("assigned_chore", "completed", id))
	setFlash(w, fmt.Sprintf("%s complete!", chore.Name))
	http.Redirect(w, r, "/child/home", http.StatusSeeOther)
}

// AcknowledgeNotification dismisses an entry from the child's feed. For a
// rejection notice this also puts the chore back on the active list.
func (h *ChildHandler) AcknowledgeNotification(w http.ResponseWriter, r *http.Request) {
	childID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	n, err := h.notificationStore.GetChildByID(id)
	if err != nil {
		h.logger.Error("load notification", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !auth.OwnsChildNotification(childID, n) {
		http.NotFound(w, r)
		return
	}

	if err := h.notificationStore.AcknowledgeChild(id); err != nil {
		h.logger.Error("acknowledge notification", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/child/home", http.StatusSeeOther)
}

// RewardsPage lists the rewards offered by the child's parent next to the
// child's current balance.
func (h *ChildHandler) RewardsPage(w http.ResponseWriter, r *http.Request) {
	childID := auth.UserID(r.Context())

	child, err := h.childStore.GetByID(childID)
	if err != nil || child == nil {
		h.logger.Error("load child", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	rewards, err := h.rewardStore.ListByParent(child.ParentID)
	if err != nil {
		h.logger.Error("list rewards", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	render(h.logger, h.templates, w, "child_rewards.html", map[string]any{
		"Title":   "Rewards",
		"Child":   child,
		"Rewards": rewards,
		"Flash":   popFlash(w, r),
	})
}

// PurchaseReward spends the child's points on a reward. The deduction and the
// purchase notice to the parent happen together or not at all.
func (h *ChildHandler) PurchaseReward(w http.ResponseWriter, r *http.Request) {
	childID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	child, err := h.childStore.GetByID(childID)
	if err != nil || child == nil {
		h.logger.Error("load child", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	reward, err := h.rewardStore.GetByID(id)
	if err != nil {
		h.logger.Error("load reward", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if reward == nil || reward.ParentID != child.ParentID {
		http.NotFound(w, r)
		return
	}

	if err := h.rewardStore.Purchase(childID, id); err != nil {
		if errors.Is(err, store.ErrInsufficientPoints) {
			setFlash(w, "You do not have enough points for this reward")
			http.Redirect(w, r, "/child/rewards", http.StatusSeeOther)
			return
		}
		h.logger.Error("purchase reward", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	h.notifyParent(child.ParentID, websocket.NewMessage("reward", "purchased", id))
	http.Redirect(w, r, "/child/rewards", http.StatusSeeOther)
}
