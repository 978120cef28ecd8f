package db

import (
	"context"

	"blog-go/internal/models"

	"github.com/pkg/errors"
)

const userColumns = "id, name, email, password_hash, profile_pic, role, created_at"

// CreateUser inserts a member, or an admin when the users table is still
// empty. An email that is already registered yields ErrDuplicate.
func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash, profilePic string) (*models.User, error) {
	query := db.rebind(`INSERT INTO users (name, email, password_hash, profile_pic, role)
		SELECT ?, ?, ?, ?, CASE WHEN EXISTS (SELECT 1 FROM users) THEN ? ELSE ? END
		RETURNING id`)

	var id int64
	err := db.QueryRowContext(ctx, query, name, email, passwordHash, profilePic,
		string(models.RoleMember), string(models.RoleAdmin)).Scan(&id)
	if err != nil {
		return nil, errors.Wrap(translate(err), "creating user failed")
	}
	return db.GetUserByID(ctx, id)
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := db.QueryRowContext(ctx, db.rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)

	user, err := scanUser(row)
	if err != nil {
		return nil, errors.Wrapf(translate(err), "getting user %d failed", id)
	}
	return user, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.QueryRowContext(ctx, db.rebind("SELECT "+userColumns+" FROM users WHERE email = ?"), email)

	user, err := scanUser(row)
	if err != nil {
		return nil, errors.Wrap(translate(err), "getting user by email failed")
	}
	return user, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var role string
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.ProfilePic, &role, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	return user, nil
}
