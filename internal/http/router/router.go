package router

import (
	"html/template"
	"net/http"

	"blog-go/internal/config"
	"blog-go/internal/db"
	"blog-go/internal/http/handlers"
	"blog-go/internal/http/middleware"
	"blog-go/internal/security"
	"blog-go/internal/util"
	"blog-go/internal/web"

	"github.com/gorilla/mux"
)

func Setup(cfg *config.Config, database *db.DB, sessionStore *security.SessionStore,
	templates map[string]*template.Template, clock util.Clock) *mux.Router {
	r := mux.NewRouter()

	view := handlers.NewView(templates, sessionStore, cfg.MemberDelete)
	authenticate := middleware.Authenticate(sessionStore, database)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(database, sessionStore, view)
	postHandler := handlers.NewPostHandler(database, view, clock)
	pageHandler := handlers.NewPageHandler(database, view)

	protect := func(action string, h http.HandlerFunc, guards ...middleware.Guard) http.Handler {
		return middleware.Protect(sessionStore, action, guards...)(h)
	}
	deleteGuards := []middleware.Guard{middleware.RequireLogin}
	if !cfg.MemberDelete {
		deleteGuards = append(deleteGuards, middleware.RequireAdmin)
	}

	r.Use(middleware.Logging, authenticate)

	r.HandleFunc("/", postHandler.Index).Methods("GET", "POST")
	r.HandleFunc("/post/{id:[0-9]+}", postHandler.Show).Methods("GET", "POST")
	r.Handle("/new-post",
		protect("add a new post", postHandler.NewPost, middleware.RequireLogin, middleware.RequireAdmin)).Methods("GET", "POST")
	r.Handle("/edit-post/{id:[0-9]+}",
		protect("edit posts", postHandler.EditPost, middleware.RequireLogin, middleware.RequireAdmin)).Methods("GET", "POST")
	r.Handle("/delete/{id:[0-9]+}",
		protect("delete posts", postHandler.DeletePost, deleteGuards...)).Methods("GET", "POST")

	r.HandleFunc("/register", authHandler.Register).Methods("GET", "POST")
	r.HandleFunc("/login", authHandler.Login).Methods("GET", "POST")
	r.Handle("/logout", protect("log out", authHandler.Logout, middleware.RequireLogin)).Methods("GET")

	r.HandleFunc("/about", pageHandler.About).Methods("GET")
	r.HandleFunc("/contact", pageHandler.Contact).Methods("GET")
	r.HandleFunc("/healthz", pageHandler.Health).Methods("GET")

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	// mux skips r.Use middleware for unmatched routes
	r.NotFoundHandler = middleware.Logging(authenticate(http.HandlerFunc(pageHandler.NotFound)))

	return r
}
