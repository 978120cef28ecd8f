package security

import (
	"net/http"

	"blog-go/internal/db"
	"blog-go/internal/util"

	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const (
	sessionName = "blog_session"
	userIDKey   = "user_id"
)

// SessionStore ties a browser to at most one user id and carries notices
// between requests.
type SessionStore struct {
	store *DBStore
}

func NewSessionStore(database *db.DB, secret []byte, maxAge int, clock util.Clock) *SessionStore {
	store := NewDBStore(database, clock, secret)
	if maxAge > 0 {
		store.MaxAge(maxAge)
	}
	return &SessionStore{store: store}
}

func (s *SessionStore) session(r *http.Request) (*sessions.Session, error) {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		return nil, errors.Wrap(err, "loading session failed")
	}
	return sess, nil
}

// UserID reports the user logged in on this request, if any.
func (s *SessionStore) UserID(r *http.Request) (int64, bool, error) {
	sess, err := s.session(r)
	if err != nil {
		return 0, false, err
	}
	id, ok := sess.Values[userIDKey].(int64)
	return id, ok, nil
}

// Login starts a new session for userID. Any previous session of this
// browser is destroyed first so the old id can't be reused.
func (s *SessionStore) Login(w http.ResponseWriter, r *http.Request, userID int64) error {
	sess, err := s.session(r)
	if err != nil {
		return err
	}
	if err := s.store.Erase(r, sess); err != nil {
		return err
	}

	sess.ID = ""
	sess.IsNew = true
	sess.Values = map[interface{}]interface{}{userIDKey: userID}
	return s.store.Save(r, w, sess)
}

// Logout destroys the session. Notices are carried over to a fresh
// anonymous session so they survive the redirect.
func (s *SessionStore) Logout(w http.ResponseWriter, r *http.Request, notices ...string) error {
	sess, err := s.session(r)
	if err != nil {
		return err
	}
	if err := s.store.Erase(r, sess); err != nil {
		return err
	}

	sess.ID = ""
	sess.IsNew = true
	sess.Values = map[interface{}]interface{}{}
	if len(notices) == 0 {
		http.SetCookie(w, sessions.NewCookie(sessionName, "", &sessions.Options{Path: "/", MaxAge: -1}))
		return nil
	}
	for _, n := range notices {
		sess.AddFlash(n)
	}
	return s.store.Save(r, w, sess)
}

// AddNotice queues a message for the next rendered page.
func (s *SessionStore) AddNotice(w http.ResponseWriter, r *http.Request, msg string) error {
	sess, err := s.session(r)
	if err != nil {
		return err
	}
	sess.AddFlash(msg)
	return s.store.Save(r, w, sess)
}

// Notices pops the queued messages. The session is only written when there
// was something to pop.
func (s *SessionStore) Notices(w http.ResponseWriter, r *http.Request) ([]string, error) {
	sess, err := s.session(r)
	if err != nil {
		return nil, err
	}

	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil, nil
	}

	notices := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if msg, ok := f.(string); ok {
			notices = append(notices, msg)
		}
	}
	return notices, s.store.Save(r, w, sess)
}
