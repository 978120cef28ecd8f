package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"blog-go/internal/config"
	"blog-go/internal/db"
	"blog-go/internal/http/router"
	"blog-go/internal/security"
	"blog-go/internal/util"
	"blog-go/internal/web"

	"github.com/gorilla/securecookie"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config/app.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	clock := util.NewRealClock()
	if n, err := database.DeleteExpiredSessions(context.Background(), clock.Now()); err != nil {
		log.Printf("Failed to prune sessions: %v", err)
	} else if n > 0 {
		log.Printf("Pruned %d expired sessions", n)
	}

	// Initialize session store
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		log.Printf("No session secret configured, sessions will not survive a restart")
		secret = securecookie.GenerateRandomKey(64)
	}
	sessionStore := security.NewSessionStore(database, secret, cfg.SessionMaxAge, clock)

	templates, err := web.Templates()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	// Setup router
	r := router.Setup(cfg, database, sessionStore, templates, clock)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Starting server on port %s (db: %s)", cfg.Port, cfg.DBDriver)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
