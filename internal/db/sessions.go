package db

import (
	"context"
	"time"

	"blog-go/internal/models"

	"github.com/pkg/errors"
)

// SaveSession inserts or replaces the session row.
func (db *DB) SaveSession(ctx context.Context, sessionID string, data []byte, expiresAt time.Time) error {
	query := db.rebind(`INSERT INTO sessions (id, data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at`)

	_, err := db.ExecContext(ctx, query, sessionID, data, expiresAt.UTC())
	return errors.Wrap(err, "saving session failed")
}

// GetSession returns ErrNotFound for unknown ids as well as expired ones.
func (db *DB) GetSession(ctx context.Context, sessionID string, now time.Time) (*models.Session, error) {
	query := db.rebind("SELECT id, data, expires_at FROM sessions WHERE id = ?")

	session := &models.Session{}
	err := db.QueryRowContext(ctx, query, sessionID).Scan(&session.ID, &session.Data, &session.ExpiresAt)
	if err != nil {
		return nil, errors.Wrap(translate(err), "getting session failed")
	}
	if !session.ExpiresAt.After(now) {
		return nil, errors.Wrap(ErrNotFound, "session expired")
	}
	return session, nil
}

func (db *DB) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := db.ExecContext(ctx, db.rebind("DELETE FROM sessions WHERE id = ?"), sessionID)
	return errors.Wrap(err, "deleting session failed")
}

// DeleteExpiredSessions returns how many rows were removed.
func (db *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, db.rebind("DELETE FROM sessions WHERE expires_at <= ?"), now.UTC())
	if err != nil {
		return 0, errors.Wrap(err, "deleting expired sessions failed")
	}
	return res.RowsAffected()
}
