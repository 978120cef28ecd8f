package handlers

import (
	"context"
	"net/http"
)

// Pinger is satisfied by *db.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type PageHandler struct {
	db   Pinger
	view *View
}

func NewPageHandler(db Pinger, view *View) *PageHandler {
	return &PageHandler{db: db, view: view}
}

func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "about.html", &Page{Title: "About"})
}

func (h *PageHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "contact.html", &Page{Title: "Contact"})
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.view.NotFound(w, r)
}

func (h *PageHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
