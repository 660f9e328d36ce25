package contact_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/gratitude-backend/internal/adapter/postgres/contact"
	"github.com/heartmarshall/gratitude-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

func newRepo(t *testing.T) (*contact.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return contact.New(pool), pool
}

func buildContact(userID, name string, birthday *domain.Birthday) *domain.Contact {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Contact{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Phone:     "+15550001111",
		Birthday:  birthday,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRepo_CreateGetUpdate(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	uid := "uid-" + uuid.NewString()[:8]
	bd, err := domain.NewBirthday(time.December, 30)
	if err != nil {
		t.Fatalf("NewBirthday: %v", err)
	}
	c := buildContact(uid, "Ann", &bd)
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, uid, c.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Birthday == nil || got.Birthday.String() != "12-30" {
		t.Errorf("Birthday mismatch: got %v", got.Birthday)
	}

	email := "ann@example.com"
	got.Name = "Ann B."
	got.Email = &email
	got.Birthday = nil
	got.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}

	updated, err := repo.GetByID(ctx, uid, c.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if updated.Name != "Ann B." || updated.Email == nil || *updated.Email != email || updated.Birthday != nil {
		t.Errorf("Update not applied: %+v", updated)
	}

	other := *updated
	other.UserID = "someone-else"
	if err := repo.Update(ctx, &other); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update by other user: expected ErrNotFound, got %v", err)
	}
}

func TestRepo_Delete_CascadesMessages(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	uid := "uid-" + uuid.NewString()[:8]
	c := testhelper.SeedContact(t, pool, uid, "Bob")

	msg := &domain.SentMessage{
		ID:        uuid.New(),
		ContactID: c.ID,
		Channel:   domain.ChannelSMS,
		Body:      "hi",
		Status:    "queued",
		SentAt:    time.Now().UTC(),
	}
	if err := repo.CreateSentMessage(ctx, msg); err != nil {
		t.Fatalf("CreateSentMessage: unexpected error: %v", err)
	}

	msgs, err := repo.ListSentMessages(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListSentMessages: unexpected error: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Channel != domain.ChannelSMS {
		t.Fatalf("unexpected messages: %+v", msgs)
	}

	if err := repo.Delete(ctx, uid, c.ID); err != nil {
		t.Fatalf("Delete: unexpected error: %v", err)
	}

	msgs, err = repo.ListSentMessages(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListSentMessages: unexpected error: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected messages to cascade, %d left", len(msgs))
	}

	err = repo.CreateSentMessage(ctx, &domain.SentMessage{
		ID: uuid.New(), ContactID: c.ID, Channel: domain.ChannelSMS, Body: "x", SentAt: time.Now(),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("message for deleted contact: expected ErrNotFound, got %v", err)
	}
}

func TestRepo_GetByIDs_ScopedToUser(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	uid := "uid-" + uuid.NewString()[:8]
	a := testhelper.SeedContact(t, pool, uid, "A")
	b := testhelper.SeedContact(t, pool, uid, "B")
	foreign := testhelper.SeedContact(t, pool, "other-"+uid, "C")

	got, err := repo.GetByIDs(ctx, uid, []uuid.UUID{a.ID, b.ID, foreign.ID, uuid.New()})
	if err != nil {
		t.Fatalf("GetByIDs: unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 contacts, got %d", len(got))
	}

	n, err := repo.CountByUser(ctx, uid)
	if err != nil {
		t.Fatalf("CountByUser: unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("CountByUser = %d, want 2", n)
	}

	if err := repo.DeleteAllByUser(ctx, uid); err != nil {
		t.Fatalf("DeleteAllByUser: unexpected error: %v", err)
	}
	all, err := repo.ListByUser(ctx, uid)
	if err != nil {
		t.Fatalf("ListByUser: unexpected error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no contacts left, got %d", len(all))
	}
}
