package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, NewStore(rdb, time.Hour)
}

func TestStore_CreateGetDelete(t *testing.T) {
	_, store := setupStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, Session{IDPengguna: 3, Username: "admin", Role: "admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.IDPengguna)
	assert.Equal(t, "admin", got.Role)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_Expires(t *testing.T) {
	mr, store := setupStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, Session{IDPengguna: 1, Role: "kasir"})
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_GetRefreshesTTL(t *testing.T) {
	mr, store := setupStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, Session{IDPengguna: 1, Role: "kasir"})
	require.NoError(t, err)

	mr.FastForward(50 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)

	mr.FastForward(50 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	assert.NoError(t, err)
}

func TestStore_DeleteByPengguna(t *testing.T) {
	_, store := setupStore(t)
	ctx := context.Background()

	a1, err := store.Create(ctx, Session{IDPengguna: 7, Role: "kasir"})
	require.NoError(t, err)
	a2, err := store.Create(ctx, Session{IDPengguna: 7, Role: "kasir"})
	require.NoError(t, err)
	other, err := store.Create(ctx, Session{IDPengguna: 8, Role: "kasir"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteByPengguna(ctx, 7))

	_, err = store.Get(ctx, a1.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(ctx, a2.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(ctx, other.ID)
	assert.NoError(t, err)

	// pengguna tanpa sesi bukan error
	assert.NoError(t, store.DeleteByPengguna(ctx, 99))
}

func TestStore_LifetimeOutlivesIdleTTL(t *testing.T) {
	_, store := setupStore(t)
	assert.Equal(t, MaxLifetime, store.Lifetime())
	assert.Greater(t, store.Lifetime(), store.TTL())
}
