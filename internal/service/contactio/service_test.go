package contactio_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gratitude-backend/internal/adapter/sqlite"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/internal/service/contactio"
	"github.com/heartmarshall/gratitude-backend/internal/store"
)

type fixture struct {
	svc   *contactio.Service
	base  *store.Store
	audit *sqlite.AuditRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := store.New(logger, sqlite.NewSessionRepo(db), sqlite.NewContactRepo(db), sqlite.NewTxManager(db))
	audit := sqlite.NewAuditRepo(db)

	stores := func(userID string) (contactio.ContactStore, error) { return base.ForUser(userID) }
	return &fixture{svc: contactio.NewService(logger, stores, audit), base: base, audit: audit}
}

func (f *fixture) contacts(t *testing.T, userID string) []domain.Contact {
	t.Helper()
	s, err := f.base.ForUser(userID)
	require.NoError(t, err)
	all, err := s.GetAllContacts(context.Background())
	require.NoError(t, err)
	return all
}

func TestService_Import(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	csv := strings.Join([]string{
		"Name,Phone 1 - Type,Phone 1 - Value,Birthday",
		"Ann,Mobile,+1 555 0100,1990-12-30",
		"NoPhone,Mobile,,",
		"Bob,Home,555-0101,not a date",
		strings.Repeat("x", 201) + ",Mobile,555,",
	}, "\n")

	res, err := f.svc.Import(context.Background(), "u-1", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Rows, 3)

	all := f.contacts(t, "u-1")
	require.Len(t, all, 2)
	assert.Equal(t, "Ann", all[0].Name)
	assert.Equal(t, "12-30", all[0].Birthday.String())
	assert.Equal(t, "Bob", all[1].Name)
	assert.Nil(t, all[1].Birthday)

	entries, err := f.audit.List(context.Background(), domain.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionImportCSV, entries[0].Action)
}

func TestService_Import_BadHeader(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Import(context.Background(), "u-1", strings.NewReader("Foo,Bar\n1,2\n"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.contacts(t, "u-1"))
}

func TestService_Import_EmptyUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Import(context.Background(), " ", strings.NewReader("Name,Phone\nA,1\n"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_ExportImport_RoundTrip(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	src, err := f.base.ForUser("u-1")
	require.NoError(t, err)
	_, err = src.AddContacts(ctx, []store.ContactInput{
		{Name: `Ann "Annie" Lee`, Phone: "+15550100", Birthday: ptr("02-29")},
		{Name: "Bob, Jr.", Phone: "+15550101"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := f.svc.Export(ctx, "u-1", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, strings.HasPrefix(buf.String(), "Name,Phone 1 - Value,Birthday"))

	res, err := f.svc.Import(ctx, "u-2", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Zero(t, res.Skipped)

	got := f.contacts(t, "u-2")
	want := f.contacts(t, "u-1")
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Phone, got[i].Phone)
		assert.Equal(t, want[i].Birthday, got[i].Birthday)
	}
}

func TestService_Export_UsesCurrentYear(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.base.ForUser("u-1")
	require.NoError(t, err)
	_, err = s.AddContact(ctx, store.ContactInput{Name: "Ann", Phone: "1", Birthday: ptr("12-30")})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = f.svc.Export(ctx, "u-1", &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), time.Now().Format("2006")+"-12-30")
}

func ptr[T any](v T) *T { return &v }
