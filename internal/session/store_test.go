package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/courtsideapp/courtside-go/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "session.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	sess := models.Session{
		UserID:        42,
		DisplayName:   "testUser1",
		AuthMethod:    models.AuthPassword,
		EstablishedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, sess.UserID, loaded.UserID)
	assert.Equal(t, sess.DisplayName, loaded.DisplayName)
	assert.Equal(t, sess.AuthMethod, loaded.AuthMethod)
	assert.True(t, sess.EstablishedAt.Equal(loaded.EstablishedAt))
}

func TestStore_LoadAbsentWhenNeverSaved(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(models.Session{UserID: 1, DisplayName: "first"}))
	require.NoError(t, store.Save(models.Session{UserID: 2, DisplayName: "second"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(2), loaded.UserID)
	assert.Equal(t, "second", loaded.DisplayName)
}

func TestStore_ClearThenLoadAbsent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(models.Session{UserID: 7, DisplayName: "user"}))
	require.NoError(t, store.Clear())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	// Clearing an already-clear store is a no-op, not an error.
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	require.NoError(t, store.Save(models.Session{UserID: 7, DisplayName: "user"}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_MalformedUserIDReadsAsAbsent(t *testing.T) {
	store := newTestStore(t)

	// Corrupt the stored id directly; a broken session must never block
	// app usage.
	err := store.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSession)
		if err != nil {
			return err
		}
		return b.Put(keyUserID, []byte("not-a-number"))
	})
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_InstallIDStableAcrossClear(t *testing.T) {
	store := newTestStore(t)

	first, err := store.InstallID()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	require.NoError(t, store.Save(models.Session{UserID: 1, DisplayName: "user"}))
	require.NoError(t, store.Clear())

	second, err := store.InstallID()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
