package security

import (
	"encoding/base32"
	"encoding/gob"
	"net/http"
	"strings"
	"time"

	"blog-go/internal/db"
	"blog-go/internal/util"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

func init() {
	// flashes
	gob.Register([]interface{}{})
}

// DBStore is a sessions.Store that keeps session values in the sessions
// table. The cookie only carries the signed session id.
type DBStore struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options

	db    *db.DB
	clock util.Clock
	enc   securecookie.GobEncoder
}

var _ sessions.Store = &DBStore{}

func NewDBStore(database *db.DB, clock util.Clock, keyPairs ...[]byte) *DBStore {
	s := &DBStore{
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   86400 * 30,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		db:    database,
		clock: clock,
	}
	s.MaxAge(s.Options.MaxAge)
	return s
}

// MaxAge sets the lifetime of new sessions and of the signed cookie.
func (s *DBStore) MaxAge(age int) {
	s.Options.MaxAge = age
	for _, codec := range s.Codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

func (s *DBStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns the session named by the request cookie, or a fresh one when
// the cookie is absent, forged, or points at an unknown or expired row.
func (s *DBStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		session.ID = ""
		return session, nil
	}

	err = s.load(r, session)
	switch {
	case err == nil:
		session.IsNew = false
	case errors.Is(err, db.ErrNotFound):
		session.ID = ""
	default:
		return session, err
	}
	return session, nil
}

// Save writes the session row and the cookie. MaxAge <= 0 deletes both.
func (s *DBStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge <= 0 {
		if err := s.Erase(r, session); err != nil {
			return err
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	data, err := s.enc.Serialize(session.Values)
	if err != nil {
		return errors.Wrap(err, "encoding session values failed")
	}
	expiresAt := s.clock.Now().Add(time.Duration(session.Options.MaxAge) * time.Second)
	if err := s.db.SaveSession(r.Context(), session.ID, data, expiresAt); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return errors.Wrap(err, "encoding session cookie failed")
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Erase deletes the server-side row. The session object keeps its values.
func (s *DBStore) Erase(r *http.Request, session *sessions.Session) error {
	if session.ID == "" {
		return nil
	}
	return s.db.DeleteSession(r.Context(), session.ID)
}

func (s *DBStore) load(r *http.Request, session *sessions.Session) error {
	row, err := s.db.GetSession(r.Context(), session.ID, s.clock.Now())
	if err != nil {
		return err
	}
	return errors.Wrap(s.enc.Deserialize(row.Data, &session.Values), "decoding session values failed")
}
