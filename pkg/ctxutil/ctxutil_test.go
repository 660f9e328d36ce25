package ctxutil

import (
	"context"
	"testing"
)

func TestWithUserID_And_UserIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithUserID(context.Background(), "firebase-uid-1")

	got, ok := UserIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for a set user ID")
	}
	if got != "firebase-uid-1" {
		t.Fatalf("expected %q, got %q", "firebase-uid-1", got)
	}
}

func TestUserIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got, ok := UserIDFromCtx(context.Background())
	if ok {
		t.Fatal("expected ok=false for empty context")
	}
	if got != "" {
		t.Fatalf("expected empty ID, got %q", got)
	}
}

func TestUserIDFromCtx_Blank(t *testing.T) {
	t.Parallel()

	_, ok := UserIDFromCtx(WithUserID(context.Background(), "  "))
	if ok {
		t.Fatal("expected ok=false for blank ID")
	}
}

func TestUserIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), userIDKey, 42)
	if _, ok := UserIDFromCtx(ctx); ok {
		t.Fatal("expected ok=false for wrong type")
	}
}

func TestEmailFromCtx(t *testing.T) {
	t.Parallel()

	if got := EmailFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty email, got %q", got)
	}
	if got := EmailFromCtx(WithEmail(context.Background(), "a@b.c")); got != "a@b.c" {
		t.Fatalf("expected a@b.c, got %q", got)
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := RequestIDFromCtx(WithRequestID(context.Background(), "req-1")); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
}
