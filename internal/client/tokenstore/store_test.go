package tokenstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/client/client"
	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/dmitrijs2005/artefacto/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/artefacto/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newStore(t *testing.T) (*Store, *sql.DB, *clock) {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := &clock{t: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	return New(db, nil).WithClock(c.now), db, c
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestSetGetRole(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	_, ok := s.Get(ctx)
	assert.False(t, ok)
	assert.Equal(t, models.RoleRegular, s.Role(ctx))

	require.NoError(t, s.Set(ctx, "opaque-token", models.RoleAdministrator))

	token, ok := s.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "opaque-token", token)
	assert.Equal(t, models.RoleAdministrator, s.Role(ctx))
}

func TestSet_Overwrites(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "first", models.RoleAdministrator))
	require.NoError(t, s.Set(ctx, "second", models.RoleRegular))

	token, ok := s.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "second", token)
	assert.Equal(t, models.RoleRegular, s.Role(ctx))
}

func TestCredentialExpiresAfterTTL(t *testing.T) {
	s, _, c := newStore(t)
	ctx := context.Background()
	start := c.t

	require.NoError(t, s.Set(ctx, "opaque", models.RoleAdministrator))

	exp, ok := s.ExpiresAt(ctx)
	require.True(t, ok)
	assert.Equal(t, start.Add(common.CredentialTTL).Unix(), exp.Unix())

	c.t = start.Add(common.CredentialTTL - time.Minute)
	_, ok = s.Get(ctx)
	assert.True(t, ok)

	c.t = start.Add(common.CredentialTTL)
	_, ok = s.Get(ctx)
	assert.False(t, ok)
	assert.Equal(t, models.RoleRegular, s.Role(ctx), "role expires with the credential")
}

func TestGet_JWTExpiry(t *testing.T) {
	s, _, c := newStore(t)
	ctx := context.Background()

	live := signed(t, c.t.Add(time.Hour))
	require.NoError(t, s.Set(ctx, live, models.RoleRegular))
	got, ok := s.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, live, got)

	exp, ok := s.ExpiresAt(ctx)
	require.True(t, ok)
	assert.Equal(t, c.t.Add(time.Hour).Unix(), exp.Unix(), "token exp is earlier than the local TTL")

	dead := signed(t, c.t.Add(-time.Second))
	require.NoError(t, s.Set(ctx, dead, models.RoleRegular))
	_, ok = s.Get(ctx)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Clear(ctx), "clearing an empty store succeeds")

	require.NoError(t, s.Set(ctx, "tok", models.RoleAdministrator))
	require.NoError(t, s.SaveProfile(ctx, &models.UserProfile{Username: "ayu"}))

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	_, ok := s.Get(ctx)
	assert.False(t, ok)
	assert.Equal(t, models.RoleRegular, s.Role(ctx))
	p, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestClear_KeepsUnrelatedKeys(t *testing.T) {
	s, db, _ := newStore(t)
	ctx := context.Background()
	repo := metadata.NewSQLiteRepository(db)

	require.NoError(t, repo.Set(ctx, "bookmark:7", []byte("1")))
	require.NoError(t, s.Set(ctx, "tok", models.RoleRegular))
	require.NoError(t, s.Clear(ctx))

	v, err := repo.Get(ctx, "bookmark:7")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
}

func TestProfile(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	p, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	want := &models.UserProfile{ID: "4", Username: "ayu", Email: "ayu@example.com", Role: models.RoleAdministrator}
	require.NoError(t, s.SaveProfile(ctx, want))

	got, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadProfile_Corrupt(t *testing.T) {
	s, db, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, metadata.NewSQLiteRepository(db).Set(ctx, KeyProfile, []byte("{not json")))

	p, err := s.LoadProfile(ctx)
	require.ErrorIs(t, err, ErrCorruptProfile)
	assert.Nil(t, p)
}

func TestDegraded(t *testing.T) {
	s := New(nil, nil)
	ctx := context.Background()

	assert.True(t, s.Degraded())
	require.NoError(t, s.Set(ctx, "tok", models.RoleAdministrator))
	_, ok := s.Get(ctx)
	assert.False(t, ok)
	assert.Equal(t, models.RoleRegular, s.Role(ctx))
	require.NoError(t, s.SaveProfile(ctx, &models.UserProfile{}))
	p, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
	require.NoError(t, s.Clear(ctx))
	_, ok = s.ExpiresAt(ctx)
	assert.False(t, ok)
}

func TestClosedDatabase(t *testing.T) {
	s, db, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "tok", models.RoleRegular))
	require.NoError(t, db.Close())

	_, ok := s.Get(ctx)
	assert.False(t, ok)
	assert.Error(t, s.Set(ctx, "tok", models.RoleRegular))
	assert.Error(t, s.Clear(ctx))
	_, err := s.LoadProfile(ctx)
	assert.Error(t, err)
}
