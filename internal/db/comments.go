package db

import (
	"context"

	"blog-go/internal/models"

	"github.com/pkg/errors"
)

// CreateComment attaches a comment to a post. A missing post or user
// yields ErrNotFound.
func (db *DB) CreateComment(ctx context.Context, postID, userID int64, body string) (*models.Comment, error) {
	query := db.rebind("INSERT INTO comments (body, user_id, post_id) VALUES (?, ?, ?) RETURNING id")

	comment := &models.Comment{Body: body, UserID: userID, PostID: postID}
	if err := db.QueryRowContext(ctx, query, body, userID, postID).Scan(&comment.ID); err != nil {
		return nil, errors.Wrapf(translate(err), "creating comment on post %d failed", postID)
	}
	return comment, nil
}

// ListComments returns the comments of a post in the order they were made.
func (db *DB) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := db.rebind(`SELECT c.id, c.body, c.user_id, c.post_id, u.id, u.name, u.email, u.profile_pic, u.role
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ? ORDER BY c.id`)

	rows, err := db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing comments of post %d failed", postID)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c := models.Comment{User: &models.User{}}
		var role string
		if err := rows.Scan(&c.ID, &c.Body, &c.UserID, &c.PostID,
			&c.User.ID, &c.User.Name, &c.User.Email, &c.User.ProfilePic, &role); err != nil {
			return nil, errors.Wrap(err, "scanning comment failed")
		}
		c.User.Role = models.Role(role)
		comments = append(comments, c)
	}
	return comments, errors.Wrapf(rows.Err(), "listing comments of post %d failed", postID)
}

func (db *DB) CountComments(ctx context.Context, postID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, db.rebind("SELECT COUNT(*) FROM comments WHERE post_id = ?"), postID).Scan(&n)
	return n, errors.Wrap(err, "counting comments failed")
}
