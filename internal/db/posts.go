package db

import (
	"context"
	"database/sql"

	"blog-go/internal/models"

	"github.com/pkg/errors"
)

const postSelect = `SELECT p.id, p.author_id, p.title, p.subtitle, p.body, p.img_url, p.date,
		u.id, u.name, u.email, u.profile_pic, u.role
	FROM posts p JOIN users u ON u.id = p.author_id`

// CreatePost stores a new post. A title that is already taken yields
// ErrDuplicate and nothing is written.
func (db *DB) CreatePost(ctx context.Context, authorID int64, fields models.PostFields, date string) (*models.Post, error) {
	query := db.rebind(`INSERT INTO posts (author_id, title, subtitle, body, img_url, date)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)

	post := &models.Post{
		AuthorID: authorID,
		Title:    fields.Title,
		Subtitle: fields.Subtitle,
		Body:     fields.Body,
		ImgURL:   fields.ImgURL,
		Date:     date,
	}
	err := db.QueryRowContext(ctx, query, authorID, fields.Title, fields.Subtitle, fields.Body, fields.ImgURL, date).
		Scan(&post.ID)
	if err != nil {
		return nil, errors.Wrap(translate(err), "creating post failed")
	}
	return post, nil
}

func (db *DB) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	row := db.QueryRowContext(ctx, db.rebind(postSelect+" WHERE p.id = ?"), id)

	post, err := scanPost(row)
	if err != nil {
		return nil, errors.Wrapf(translate(err), "getting post %d failed", id)
	}
	return post, nil
}

// ListPosts returns every post, newest first.
func (db *DB) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := db.QueryContext(ctx, postSelect+" ORDER BY p.id DESC")
	if err != nil {
		return nil, errors.Wrap(err, "listing posts failed")
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning post failed")
		}
		posts = append(posts, *post)
	}
	return posts, errors.Wrap(rows.Err(), "listing posts failed")
}

// UpdatePost overwrites every mutable field and hands the post to authorID.
func (db *DB) UpdatePost(ctx context.Context, id, authorID int64, fields models.PostFields) error {
	query := db.rebind(`UPDATE posts SET title = ?, subtitle = ?, body = ?, img_url = ?, author_id = ?
		WHERE id = ?`)

	res, err := db.ExecContext(ctx, query, fields.Title, fields.Subtitle, fields.Body, fields.ImgURL, authorID, id)
	if err != nil {
		return errors.Wrapf(translate(err), "updating post %d failed", id)
	}
	return errors.Wrapf(expectOne(res), "updating post %d failed", id)
}

// DeletePost removes the post together with its comments.
func (db *DB) DeletePost(ctx context.Context, id int64) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, db.rebind("DELETE FROM comments WHERE post_id = ?"), id); err != nil {
			return errors.Wrapf(err, "deleting comments of post %d failed", id)
		}

		res, err := tx.ExecContext(ctx, db.rebind("DELETE FROM posts WHERE id = ?"), id)
		if err != nil {
			return errors.Wrapf(err, "deleting post %d failed", id)
		}
		return errors.Wrapf(expectOne(res), "deleting post %d failed", id)
	})
}

func scanPost(row scanner) (*models.Post, error) {
	post := &models.Post{Author: &models.User{}}
	var role string
	err := row.Scan(&post.ID, &post.AuthorID, &post.Title, &post.Subtitle, &post.Body, &post.ImgURL, &post.Date,
		&post.Author.ID, &post.Author.Name, &post.Author.Email, &post.Author.ProfilePic, &role)
	if err != nil {
		return nil, err
	}
	post.Author.Role = models.Role(role)
	return post, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
