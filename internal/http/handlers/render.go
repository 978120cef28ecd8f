package handlers

import (
	"bytes"
	"html/template"
	"log"
	"net/http"

	"blog-go/internal/http/middleware"
	"blog-go/internal/models"
	"blog-go/internal/security"
)

// Page is what every template receives. Data holds the page specific part.
type Page struct {
	Title     string
	User      *models.User
	Notices   []string
	CanDelete bool
	Data      interface{}
}

type errorData struct {
	Status  int
	Message string
}

// View renders pages and carries notices across redirects.
type View struct {
	templates    map[string]*template.Template
	sec          *security.SessionStore
	memberDelete bool
}

func NewView(templates map[string]*template.Template, sec *security.SessionStore, memberDelete bool) *View {
	return &View{templates: templates, sec: sec, memberDelete: memberDelete}
}

// Render writes the page with any queued notices followed by notices.
func (v *View) Render(w http.ResponseWriter, r *http.Request, status int, name string, page *Page, notices ...string) {
	tmpl, ok := v.templates[name]
	if !ok {
		log.Printf("unknown template %q", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page.User = middleware.CurrentUser(r.Context())
	page.CanDelete = page.User.IsAdmin() || (v.memberDelete && page.User != nil)

	queued, err := v.sec.Notices(w, r)
	if err != nil {
		log.Printf("reading notices: %v", err)
	}
	page.Notices = append(queued, notices...)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		log.Printf("executing template %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Redirect sends the user to url and shows msg on the page they land on.
func (v *View) Redirect(w http.ResponseWriter, r *http.Request, url, msg string) {
	if msg != "" {
		if err := v.sec.AddNotice(w, r, msg); err != nil {
			log.Printf("saving notice: %v", err)
		}
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (v *View) NotFound(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, http.StatusNotFound, "error.html", &Page{
		Title: "Not Found",
		Data:  errorData{Status: http.StatusNotFound, Message: "The page you are looking for does not exist."},
	})
}

func (v *View) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	v.Render(w, r, http.StatusInternalServerError, "error.html", &Page{
		Title: "Error",
		Data:  errorData{Status: http.StatusInternalServerError, Message: "Something went wrong. Please try again later."},
	})
}
