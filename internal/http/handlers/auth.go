package handlers

import (
	"context"
	"log"
	"net/http"

	"blog-go/internal/db"
	"blog-go/internal/models"
	"blog-go/internal/security"

	"github.com/pkg/errors"
)

const (
	noticeAccountExists      = "User account already exists!"
	noticeInvalidCredentials = "Invalid credentials!"
	noticeLoggedOut          = "Logged out."
)

// UserStore is the part of the identity store the auth handlers use.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash, profilePic string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthHandler struct {
	users UserStore
	sec   *security.SessionStore
	view  *View
}

func NewAuthHandler(users UserStore, sec *security.SessionStore, view *View) *AuthHandler {
	return &AuthHandler{
		users: users,
		sec:   sec,
		view:  view,
	}
}

type registerData struct {
	Form   registerForm
	Errors map[string]string
}

type loginData struct {
	Form   loginForm
	Errors map[string]string
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	render := func(data registerData, notices ...string) {
		data.Form.Password = ""
		h.view.Render(w, r, http.StatusOK, "register.html", &Page{Title: "Register", Data: data}, notices...)
	}

	if r.Method != http.MethodPost {
		render(registerData{})
		return
	}

	var form registerForm
	fieldErrors, err := decodeForm(r, &form)
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if len(form.Password) > security.MaxPasswordLen {
		fieldErrors["password"] = "Password is too long."
	}
	if len(fieldErrors) > 0 {
		render(registerData{Form: form, Errors: fieldErrors})
		return
	}

	passwordHash, err := security.HashPassword(form.Password)
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), form.Name, form.Email, passwordHash, security.GravatarURL(form.Email))
	if errors.Is(err, db.ErrDuplicate) {
		render(registerData{Form: form}, noticeAccountExists)
		return
	}
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}

	log.Printf("registered user %d (%s)", user.ID, user.Role)
	if err := h.sec.Login(w, r, user.ID); err != nil {
		h.view.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	render := func(data loginData, notices ...string) {
		data.Form.Password = ""
		h.view.Render(w, r, http.StatusOK, "login.html", &Page{Title: "Log In", Data: data}, notices...)
	}

	if r.Method != http.MethodPost {
		render(loginData{})
		return
	}

	var form loginForm
	fieldErrors, err := decodeForm(r, &form)
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if len(fieldErrors) > 0 {
		render(loginData{Form: form, Errors: fieldErrors})
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), form.Email)
	switch {
	case errors.Is(err, db.ErrNotFound):
		// match the timing of a wrong password
		security.CompareDummy(form.Password)
		render(loginData{Form: form}, noticeInvalidCredentials)
		return
	case err != nil:
		h.view.ServerError(w, r, err)
		return
	}

	if !security.ComparePasswords(user.PasswordHash, form.Password) {
		render(loginData{Form: form}, noticeInvalidCredentials)
		return
	}

	if err := h.sec.Login(w, r, user.ID); err != nil {
		h.view.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sec.Logout(w, r, noticeLoggedOut); err != nil {
		h.view.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
