package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"blog-go/internal/db"
	"blog-go/internal/http/middleware"
	"blog-go/internal/models"
	"blog-go/internal/util"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const (
	noticePostExists     = "Blog post already exists!"
	noticeLoginToComment = "You have to login to comment!"
	noticePostDeleted    = "Post deleted."
)

// ContentStore is the part of the content store the post handlers use.
type ContentStore interface {
	CreatePost(ctx context.Context, authorID int64, fields models.PostFields, date string) (*models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	UpdatePost(ctx context.Context, id, authorID int64, fields models.PostFields) error
	DeletePost(ctx context.Context, id int64) error
	CreateComment(ctx context.Context, postID, userID int64, body string) (*models.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
}

type PostHandler struct {
	content ContentStore
	view    *View
	clock   util.Clock
}

func NewPostHandler(content ContentStore, view *View, clock util.Clock) *PostHandler {
	return &PostHandler{
		content: content,
		view:    view,
		clock:   clock,
	}
}

type indexData struct {
	Posts []models.Post
}

type postData struct {
	Post     *models.Post
	Comments []models.Comment
	Form     commentForm
	Errors   map[string]string
}

type postFormData struct {
	Form   postForm
	Errors map[string]string
	IsEdit bool
}

func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

func (h *PostHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.content.ListPosts(r.Context())
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}
	h.view.Render(w, r, http.StatusOK, "index.html", &Page{Title: "Blog", Data: indexData{Posts: posts}})
}

// Show renders a post with its comments. A POST adds a comment first and
// needs a logged-in user.
func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.view.NotFound(w, r)
		return
	}

	post, err := h.content.GetPost(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		h.view.NotFound(w, r)
		return
	}
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}

	data := postData{Post: post}
	if r.Method == http.MethodPost {
		user := middleware.CurrentUser(r.Context())
		if d := middleware.Check(user, middleware.RequireLogin); !d.Allowed {
			h.view.Redirect(w, r, "/login", noticeLoginToComment)
			return
		}

		fieldErrors, err := decodeForm(r, &data.Form)
		if err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if len(fieldErrors) == 0 {
			_, err := h.content.CreateComment(r.Context(), post.ID, user.ID, data.Form.Comment)
			if errors.Is(err, db.ErrNotFound) {
				h.view.NotFound(w, r)
				return
			}
			if err != nil {
				h.view.ServerError(w, r, err)
				return
			}
			http.Redirect(w, r, fmt.Sprintf("/post/%d", post.ID), http.StatusSeeOther)
			return
		}
		data.Errors = fieldErrors
	}

	data.Comments, err = h.content.ListComments(r.Context(), post.ID)
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}
	h.view.Render(w, r, http.StatusOK, "post.html", &Page{Title: post.Title, Data: data})
}

func (h *PostHandler) NewPost(w http.ResponseWriter, r *http.Request) {
	render := func(data postFormData, notices ...string) {
		h.view.Render(w, r, http.StatusOK, "make-post.html", &Page{Title: "New Post", Data: data}, notices...)
	}

	if r.Method != http.MethodPost {
		render(postFormData{})
		return
	}

	var form postForm
	fieldErrors, err := decodeForm(r, &form)
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if len(fieldErrors) > 0 {
		render(postFormData{Form: form, Errors: fieldErrors})
		return
	}

	user := middleware.CurrentUser(r.Context())
	post, err := h.content.CreatePost(r.Context(), user.ID, form.fields(), h.clock.Now().Format(models.DateLayout))
	if errors.Is(err, db.ErrDuplicate) {
		render(postFormData{Form: form}, noticePostExists)
		return
	}
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}

	log.Printf("user %d created post %d", user.ID, post.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PostHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.view.NotFound(w, r)
		return
	}

	render := func(data postFormData, notices ...string) {
		data.IsEdit = true
		h.view.Render(w, r, http.StatusOK, "make-post.html", &Page{Title: "Edit Post", Data: data}, notices...)
	}

	post, err := h.content.GetPost(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		h.view.NotFound(w, r)
		return
	}
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		render(postFormData{Form: postFormFrom(post)})
		return
	}

	var form postForm
	fieldErrors, err := decodeForm(r, &form)
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if len(fieldErrors) > 0 {
		render(postFormData{Form: form, Errors: fieldErrors})
		return
	}

	user := middleware.CurrentUser(r.Context())
	err = h.content.UpdatePost(r.Context(), id, user.ID, form.fields())
	switch {
	case errors.Is(err, db.ErrDuplicate):
		render(postFormData{Form: form}, noticePostExists)
		return
	case errors.Is(err, db.ErrNotFound):
		h.view.NotFound(w, r)
		return
	case err != nil:
		h.view.ServerError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.view.NotFound(w, r)
		return
	}

	err := h.content.DeletePost(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		h.view.NotFound(w, r)
		return
	}
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}

	log.Printf("user %d deleted post %d", middleware.CurrentUser(r.Context()).ID, id)
	h.view.Redirect(w, r, "/", noticePostDeleted)
}
