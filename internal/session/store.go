// Package session persists the authenticated session in a local bbolt file,
// the durable key-value store the rest of the client reads identity from.
package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/courtsideapp/courtside-go/internal/apperrors"
	"github.com/courtsideapp/courtside-go/internal/models"
)

var (
	bucketSession = []byte("session")
	bucketDevice  = []byte("device")

	keyUserID        = []byte("userID")
	keyUsername      = []byte("username")
	keyAuthMethod    = []byte("authMethod")
	keyEstablishedAt = []byte("establishedAt")
	keyInstallID     = []byte("installID")
)

// Store is the durable session store. It exclusively owns the persisted
// session; all reads and writes go through Save, Load and Clear.
type Store struct {
	db     *bolt.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the session database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: create storage dir: %v", apperrors.ErrStorage, err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", apperrors.ErrStorage, path, err)
	}
	return &Store{db: db, path: path, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Save persists the session, overwriting any prior value.
func (s *Store) Save(sess models.Session) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSession)
		if err != nil {
			return err
		}
		if err := b.Put(keyUserID, []byte(strconv.FormatInt(sess.UserID, 10))); err != nil {
			return err
		}
		if err := b.Put(keyUsername, []byte(sess.DisplayName)); err != nil {
			return err
		}
		if err := b.Put(keyAuthMethod, []byte(sess.AuthMethod)); err != nil {
			return err
		}
		return b.Put(keyEstablishedAt, []byte(sess.EstablishedAt.UTC().Format(time.RFC3339)))
	})
	if err != nil {
		return fmt.Errorf("%w: save session: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// Load reads the persisted session. It returns (nil, nil) when no session
// is stored. A malformed stored user id also reads as absent: a corrupted
// session must never block app usage.
func (s *Store) Load() (*models.Session, error) {
	var sess *models.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		rawID := b.Get(keyUserID)
		if rawID == nil {
			return nil
		}
		userID, err := strconv.ParseInt(string(rawID), 10, 64)
		if err != nil {
			s.logger.Warn("discarding malformed stored session", "userID", string(rawID))
			return nil
		}
		loaded := models.Session{
			UserID:      userID,
			DisplayName: string(b.Get(keyUsername)),
			AuthMethod:  models.AuthMethod(b.Get(keyAuthMethod)),
		}
		if raw := b.Get(keyEstablishedAt); raw != nil {
			if ts, err := time.Parse(time.RFC3339, string(raw)); err == nil {
				loaded.EstablishedAt = ts
			}
		}
		sess = &loaded
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: load session: %v", apperrors.ErrStorage, err)
	}
	return sess, nil
}

// Clear removes all session keys. Clearing an already-clear store is a
// no-op, not an error.
func (s *Store) Clear() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketSession) == nil {
			return nil
		}
		return tx.DeleteBucket(bucketSession)
	})
	if err != nil {
		return fmt.Errorf("%w: clear session: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// InstallID returns the stable per-install identifier, generating and
// persisting one on first use. It survives Clear, which only touches
// session keys.
func (s *Store) InstallID() (string, error) {
	var id string
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketDevice)
		if err != nil {
			return err
		}
		if raw := b.Get(keyInstallID); raw != nil {
			id = string(raw)
			return nil
		}
		id = uuid.NewString()
		return b.Put(keyInstallID, []byte(id))
	})
	if err != nil {
		return "", fmt.Errorf("%w: install id: %v", apperrors.ErrStorage, err)
	}
	return id, nil
}
