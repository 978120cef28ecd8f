package middleware

import (
	"context"
	"log"
	"net/http"

	"blog-go/internal/db"
	"blog-go/internal/models"

	"github.com/pkg/errors"
)

type ctxKey int

const userKey ctxKey = iota

// UserFinder loads the account behind a session.
type UserFinder interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionReader reports which user id, if any, a request is logged in as.
type SessionReader interface {
	UserID(r *http.Request) (int64, bool, error)
}

// Authenticate puts the logged-in user, if any, into the request context.
// It never rejects a request; guards decide what anonymous users may do.
func Authenticate(sessions SessionReader, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok, err := sessions.UserID(r)
			if err != nil {
				log.Printf("reading session: %v", err)
			}
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), id)
			if err != nil {
				if !errors.Is(err, db.ErrNotFound) {
					log.Printf("loading user %d: %v", id, err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser returns nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
