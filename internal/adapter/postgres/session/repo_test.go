package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/gratitude-backend/internal/adapter/postgres/session"
	"github.com/heartmarshall/gratitude-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*session.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return session.New(pool), pool
}

func buildSession(userID string, date time.Time, mode domain.Mode) *domain.Session {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      date,
		Mode:      mode,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func buildItems(sessionID uuid.UUID, contactID uuid.UUID) []domain.Item {
	now := time.Now().UTC().Truncate(time.Microsecond)
	items := make([]domain.Item, domain.ItemsPerSession)
	for i := range items {
		items[i] = domain.Item{
			ID:        uuid.New(),
			SessionID: sessionID,
			Order:     i + 1,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	items[0].Text = "coffee"
	items[0].Media = []domain.Media{{
		ID:        uuid.New(),
		ItemID:    items[0].ID,
		Kind:      domain.MediaKindImage,
		DataURL:   "data:image/png;base64,AAAA",
		FileName:  "a.png",
		FileSize:  3,
		MIMEType:  "image/png",
		CreatedAt: now,
	}}
	items[1].ContactIDs = []uuid.UUID{contactID}
	return items
}

func userID() string {
	return "uid-" + uuid.NewString()[:8]
}

func TestRepo_CreateAndGet(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	uid := userID()
	s := buildSession(uid, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), domain.ModeReflective)
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	contactID := uuid.New()
	if err := repo.CreateItems(ctx, buildItems(s.ID, contactID)); err != nil {
		t.Fatalf("CreateItems: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, uid, s.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if !got.Date.Equal(s.Date) {
		t.Errorf("Date mismatch: got %s, want %s", got.Date, s.Date)
	}
	if got.Mode != domain.ModeReflective {
		t.Errorf("Mode mismatch: got %s", got.Mode)
	}

	items, err := repo.ListItems(ctx, s.ID)
	if err != nil {
		t.Fatalf("ListItems: unexpected error: %v", err)
	}
	if len(items) != domain.ItemsPerSession {
		t.Fatalf("expected %d items, got %d", domain.ItemsPerSession, len(items))
	}
	if items[0].Text != "coffee" || len(items[0].Media) != 1 {
		t.Errorf("first item mismatch: %+v", items[0])
	}
	if len(items[1].ContactIDs) != 1 || items[1].ContactIDs[0] != contactID {
		t.Errorf("tags mismatch: %v", items[1].ContactIDs)
	}

	if _, err := repo.GetByID(ctx, "someone-else", s.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID for other user: expected ErrNotFound, got %v", err)
	}
}

func TestRepo_Create_DuplicateSession(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	uid := userID()
	day := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	if err := repo.Create(ctx, buildSession(uid, day, domain.ModeReflective)); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	err := repo.Create(ctx, buildSession(uid, day, domain.ModeReflective))
	if !errors.Is(err, domain.ErrDuplicateSession) {
		t.Fatalf("expected ErrDuplicateSession, got %v", err)
	}

	if err := repo.Create(ctx, buildSession(uid, day, domain.ModeImprovement)); err != nil {
		t.Fatalf("other mode on same day should be allowed: %v", err)
	}

	byDate, err := repo.ListByDate(ctx, uid, day)
	if err != nil {
		t.Fatalf("ListByDate: unexpected error: %v", err)
	}
	if len(byDate) != 2 {
		t.Errorf("expected 2 sessions on day, got %d", len(byDate))
	}
}

func TestRepo_Touch_Versioning(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	uid := userID()
	s := buildSession(uid, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), domain.ModeImprovement)
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	v1 := 1
	if err := repo.Touch(ctx, uid, s.ID, &v1, time.Now()); err != nil {
		t.Fatalf("Touch: unexpected error: %v", err)
	}
	if err := repo.Touch(ctx, uid, s.ID, &v1, time.Now()); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("stale Touch: expected ErrConflict, got %v", err)
	}

	got, err := repo.GetByID(ctx, uid, s.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("expected version 2, got %d", got.Version)
	}
}

func TestRepo_Delete_Cascades(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	uid := userID()
	s := buildSession(uid, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), domain.ModeReflective)
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if err := repo.CreateItems(ctx, buildItems(s.ID, uuid.New())); err != nil {
		t.Fatalf("CreateItems: unexpected error: %v", err)
	}

	if err := repo.Delete(ctx, uid, s.ID); err != nil {
		t.Fatalf("Delete: unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, uid, s.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Delete: expected ErrNotFound, got %v", err)
	}

	var items int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM session_items WHERE session_id = $1`, s.ID).Scan(&items); err != nil {
		t.Fatalf("count items: %v", err)
	}
	if items != 0 {
		t.Errorf("expected items to cascade, %d left", items)
	}
}

func TestRepo_ListByUser_ModeFilterAndCount(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	uid := userID()
	for i, mode := range []domain.Mode{domain.ModeReflective, domain.ModeImprovement, domain.ModeReflective} {
		s := buildSession(uid, time.Date(2024, 7, i+1, 0, 0, 0, 0, time.UTC), mode)
		s.CreatedAt = s.CreatedAt.Add(time.Duration(i) * time.Second)
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create: unexpected error: %v", err)
		}
	}

	mode := domain.ModeReflective
	got, err := repo.ListByUser(ctx, uid, &mode)
	if err != nil {
		t.Fatalf("ListByUser: unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 reflective sessions, got %d", len(got))
	}
	if !got[0].CreatedAt.After(got[1].CreatedAt) {
		t.Errorf("expected newest first")
	}

	n, err := repo.CountByUser(ctx, uid)
	if err != nil {
		t.Fatalf("CountByUser: unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("CountByUser = %d, want 3", n)
	}

	if err := repo.DeleteAllByUser(ctx, uid); err != nil {
		t.Fatalf("DeleteAllByUser: unexpected error: %v", err)
	}
	all, err := repo.ListByUser(ctx, uid, nil)
	if err != nil {
		t.Fatalf("ListByUser: unexpected error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no sessions after DeleteAllByUser, got %d", len(all))
	}
}

func TestRepo_ListByUser_ClosedPool_IsBackendUnavailable(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM sessions").
		WithArgs("uid-1").
		WillReturnError(errors.New("closed pool"))

	_, err = session.New(mock).ListByUser(context.Background(), "uid-1", nil)
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRepo_Touch_NoRows_IsConflict(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("UPDATE sessions SET version = version \\+ 1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	v := 4
	err = session.New(mock).Touch(context.Background(), "uid-1", uuid.New(), &v, time.Now())
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRepo_Touch_WithoutVersion(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	uid := userID()
	s := buildSession(uid, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), domain.ModeReflective)
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	// Two writers without a token both succeed.
	for i := 0; i < 2; i++ {
		if err := repo.Touch(ctx, uid, s.ID, nil, time.Now()); err != nil {
			t.Fatalf("Touch #%d: unexpected error: %v", i+1, err)
		}
	}
	got, err := repo.GetByID(ctx, uid, s.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Version != 3 {
		t.Errorf("version = %d, want 3", got.Version)
	}

	if err := repo.Touch(ctx, uid, uuid.New(), nil, time.Now()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown session: expected ErrNotFound, got %v", err)
	}
}
