package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"blog-go/internal/db"
	"blog-go/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Init(db.DriverSQLite, filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func createUser(ctx context.Context, t *testing.T, database *db.DB) *models.User {
	t.Helper()
	email := gofakeit.Email()
	user, err := database.CreateUser(ctx, gofakeit.Name(), email, "hash", "https://example.com/"+email)
	require.NoError(t, err)
	return user
}

func fakeFields() models.PostFields {
	return models.PostFields{
		Title:    gofakeit.Sentence(4),
		Subtitle: gofakeit.Sentence(8),
		Body:     "<p>" + gofakeit.Paragraph(1, 3, 10, " ") + "</p>",
		ImgURL:   gofakeit.URL(),
	}
}

func countRows(t *testing.T, database *db.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(query, args...).Scan(&n))
	return n
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	name := gofakeit.Name()
	email := gofakeit.Email()
	user, err := database.CreateUser(ctx, name, email, "hash", "pic")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, name, user.Name)
	require.Equal(t, email, user.Email)
	require.Equal(t, "hash", user.PasswordHash)
	require.Equal(t, "pic", user.ProfilePic)
	require.False(t, user.CreatedAt.IsZero())

	byID, err := database.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user, byID)

	byEmail, err := database.GetUserByEmail(ctx, email)
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)
}

func TestFirstUserIsAdmin(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	first := createUser(ctx, t, database)
	second := createUser(ctx, t, database)
	third := createUser(ctx, t, database)

	require.Equal(t, models.RoleAdmin, first.Role)
	require.True(t, first.IsAdmin())
	require.Equal(t, models.RoleMember, second.Role)
	require.Equal(t, models.RoleMember, third.Role)
	require.False(t, third.IsAdmin())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	_, err := database.CreateUser(ctx, "A", "a@x.com", "pw-hash", "")
	require.NoError(t, err)

	_, err = database.CreateUser(ctx, "B", "a@x.com", "pw2-hash", "")
	require.ErrorIs(t, err, db.ErrDuplicate)

	require.Equal(t, 1, countRows(t, database, "SELECT COUNT(*) FROM users WHERE email = ?", "a@x.com"))
	user, err := database.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, "A", user.Name)
}

func TestGetUserNotFound(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	_, err := database.GetUserByID(ctx, 42)
	require.ErrorIs(t, err, db.ErrNotFound)

	_, err = database.GetUserByEmail(ctx, gofakeit.Email())
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestCreateAndGetPost(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	author := createUser(ctx, t, database)

	fields := fakeFields()
	post, err := database.CreatePost(ctx, author.ID, fields, "March 05, 2024")
	require.NoError(t, err)
	require.NotZero(t, post.ID)

	got, err := database.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, fields.Title, got.Title)
	require.Equal(t, fields.Subtitle, got.Subtitle)
	require.Equal(t, fields.Body, got.Body)
	require.Equal(t, fields.ImgURL, got.ImgURL)
	require.Equal(t, "March 05, 2024", got.Date)
	require.Equal(t, author.ID, got.AuthorID)
	require.NotNil(t, got.Author)
	require.Equal(t, author.Name, got.Author.Name)

	_, err = database.GetPost(ctx, post.ID+1)
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestCreatePostDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	author := createUser(ctx, t, database)

	fields := fakeFields()
	_, err := database.CreatePost(ctx, author.ID, fields, "today")
	require.NoError(t, err)

	again := fakeFields()
	again.Title = fields.Title
	_, err = database.CreatePost(ctx, author.ID, again, "today")
	require.ErrorIs(t, err, db.ErrDuplicate)

	require.Equal(t, 1, countRows(t, database, "SELECT COUNT(*) FROM posts"))
}

func TestCreatePostUnknownAuthor(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	_, err := database.CreatePost(ctx, 99, fakeFields(), "today")
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestListPostsNewestFirst(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	author := createUser(ctx, t, database)

	posts, err := database.ListPosts(ctx)
	require.NoError(t, err)
	require.Empty(t, posts)

	var ids []int64
	for i := 0; i < 3; i++ {
		post, err := database.CreatePost(ctx, author.ID, fakeFields(), "today")
		require.NoError(t, err)
		ids = append(ids, post.ID)
	}

	posts, err = database.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	require.Equal(t, ids[2], posts[0].ID)
	require.Equal(t, ids[0], posts[2].ID)
	require.Equal(t, author.Name, posts[0].Author.Name)
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	admin := createUser(ctx, t, database)
	other := createUser(ctx, t, database)

	post, err := database.CreatePost(ctx, admin.ID, fakeFields(), "January 01, 2024")
	require.NoError(t, err)

	fields := fakeFields()
	require.NoError(t, database.UpdatePost(ctx, post.ID, other.ID, fields))

	got, err := database.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, fields.Title, got.Title)
	require.Equal(t, fields.Body, got.Body)
	require.Equal(t, other.ID, got.AuthorID)
	require.Equal(t, "January 01, 2024", got.Date)

	err = database.UpdatePost(ctx, post.ID+1, admin.ID, fakeFields())
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestUpdatePostDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	admin := createUser(ctx, t, database)

	first, err := database.CreatePost(ctx, admin.ID, fakeFields(), "today")
	require.NoError(t, err)
	second, err := database.CreatePost(ctx, admin.ID, fakeFields(), "today")
	require.NoError(t, err)

	fields := fakeFields()
	fields.Title = first.Title
	err = database.UpdatePost(ctx, second.ID, admin.ID, fields)
	require.ErrorIs(t, err, db.ErrDuplicate)

	got, err := database.GetPost(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, second.Title, got.Title)
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	admin := createUser(ctx, t, database)
	member := createUser(ctx, t, database)

	post, err := database.CreatePost(ctx, admin.ID, fakeFields(), "today")
	require.NoError(t, err)

	first, err := database.CreateComment(ctx, post.ID, member.ID, "first!")
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	_, err = database.CreateComment(ctx, post.ID, admin.ID, "thanks")
	require.NoError(t, err)

	comments, err := database.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "first!", comments[0].Body)
	require.Equal(t, member.Name, comments[0].User.Name)
	require.Equal(t, member.ProfilePic, comments[0].User.ProfilePic)
	require.Equal(t, "thanks", comments[1].Body)
	require.Equal(t, models.RoleAdmin, comments[1].User.Role)
}

func TestCreateCommentMissingPost(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	user := createUser(ctx, t, database)

	_, err := database.CreateComment(ctx, 123, user.ID, "hello")
	require.ErrorIs(t, err, db.ErrNotFound)
	require.Equal(t, 0, countRows(t, database, "SELECT COUNT(*) FROM comments"))
}

func TestDeletePostRemovesComments(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	admin := createUser(ctx, t, database)
	member := createUser(ctx, t, database)

	doomed, err := database.CreatePost(ctx, admin.ID, fakeFields(), "today")
	require.NoError(t, err)
	kept, err := database.CreatePost(ctx, admin.ID, fakeFields(), "today")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := database.CreateComment(ctx, doomed.ID, member.ID, gofakeit.Sentence(5))
		require.NoError(t, err)
	}
	_, err = database.CreateComment(ctx, kept.ID, member.ID, "stays")
	require.NoError(t, err)

	require.NoError(t, database.DeletePost(ctx, doomed.ID))

	_, err = database.GetPost(ctx, doomed.ID)
	require.ErrorIs(t, err, db.ErrNotFound)
	n, err := database.CountComments(ctx, doomed.ID)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = database.GetPost(ctx, kept.ID)
	require.NoError(t, err)
	n, err = database.CountComments(ctx, kept.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.ErrorIs(t, database.DeletePost(ctx, doomed.ID), db.ErrNotFound)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	require.NoError(t, database.SaveSession(ctx, "abc", []byte("one"), now.Add(time.Hour)))

	session, err := database.GetSession(ctx, "abc", now)
	require.NoError(t, err)
	require.Equal(t, []byte("one"), session.Data)
	require.True(t, session.ExpiresAt.Equal(now.Add(time.Hour)))

	// saving again replaces the row
	require.NoError(t, database.SaveSession(ctx, "abc", []byte("two"), now.Add(2*time.Hour)))
	session, err = database.GetSession(ctx, "abc", now)
	require.NoError(t, err)
	require.Equal(t, []byte("two"), session.Data)

	_, err = database.GetSession(ctx, "abc", now.Add(3*time.Hour))
	require.ErrorIs(t, err, db.ErrNotFound)

	require.NoError(t, database.DeleteSession(ctx, "abc"))
	_, err = database.GetSession(ctx, "abc", now)
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestDeleteExpiredSessions(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	require.NoError(t, database.SaveSession(ctx, "old", []byte("x"), now.Add(-time.Minute)))
	require.NoError(t, database.SaveSession(ctx, "fresh", []byte("y"), now.Add(time.Hour)))

	n, err := database.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = database.GetSession(ctx, "fresh", now)
	require.NoError(t, err)
}

func TestInitUnsupportedDriver(t *testing.T) {
	_, err := db.Init("mysql", "whatever")
	require.Error(t, err)
}
