package auth

import (
	"context"
	"testing"
)

func TestWithActorAndFromContext(t *testing.T) {
	a := Actor{
		Role:      "parent",
		UserID:    1,
		SessionID: 3,
	}

	ctx := WithActor(context.Background(), a)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected Actor in context")
	}
	if got.Role != "parent" {
		t.Errorf("Role = %q, want %q", got.Role, "parent")
	}
	if got.UserID != 1 {
		t.Errorf("UserID = %d, want 1", got.UserID)
	}
	if got.SessionID != 3 {
		t.Errorf("SessionID = %d, want 3", got.SessionID)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing Actor")
	}
}

func TestUserID(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{UserID: 7})
	if UserID(ctx) != 7 {
		t.Errorf("UserID = %d, want 7", UserID(ctx))
	}
}

func TestUserIDMissing(t *testing.T) {
	if UserID(context.Background()) != 0 {
		t.Error("expected 0 for missing context")
	}
}

func TestIsParent(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{Role: "parent"})
	if !IsParent(ctx) {
		t.Error("expected IsParent = true for parent role")
	}
	if IsChild(ctx) {
		t.Error("expected IsChild = false for parent role")
	}
}

func TestIsChild(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{Role: "child"})
	if !IsChild(ctx) {
		t.Error("expected IsChild = true for child role")
	}
	if IsParent(ctx) {
		t.Error("expected IsParent = false for child role")
	}
}

func TestRoleMissing(t *testing.T) {
	if IsParent(context.Background()) || IsChild(context.Background()) {
		t.Error("expected both roles false for missing context")
	}
}
