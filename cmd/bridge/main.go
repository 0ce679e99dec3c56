package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/mind-engage/h5p-bridge/internal/api/http"
	"github.com/mind-engage/h5p-bridge/internal/audit"
	authmw "github.com/mind-engage/h5p-bridge/internal/auth/middleware"
	"github.com/mind-engage/h5p-bridge/internal/config"
	"github.com/mind-engage/h5p-bridge/internal/content"
	"github.com/mind-engage/h5p-bridge/internal/db"
	"github.com/mind-engage/h5p-bridge/internal/grade"
	"github.com/mind-engage/h5p-bridge/internal/h5p"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	registry := content.NewSQLRegistry(dbh, cfg.DBDriver)
	grades := grade.NewSQLStore(dbh, registry)
	auditLog := audit.NewRepo(dbh, cfg.SiteID)
	links := h5p.NewLinks(cfg.H5PServerURL, cfg.PublicURL)

	authSvc := authmw.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Webhook-Secret"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Demo pages + editor popup flow
	r.Get("/", api.IndexPageHandler(registry))
	r.Get("/new", api.NewContentHandler(links))
	r.Get("/edit/{h5pID}", api.EditContentHandler(links))
	r.Get("/play/{h5pID}", api.PlayPageHandler(links))
	r.Get("/grades/{contentID}", api.GradesPageHandler(registry, grades))
	r.Get("/callback", api.CallbackHandler(registry, auditLog))

	// Score ingestion from the H5P server
	r.With(authmw.WebhookSecret(cfg.WebhookSecret)).
		Post("/webhook", api.WebhookHandler(grades, auditLog))

	// JSON reporting API
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/contents", api.ListContentHandler(registry))
		ar.Get("/contents/{contentID}", api.GetContentHandler(registry))
		ar.Get("/contents/{contentID}/grades", api.ContentGradesHandler(registry, grades))

		if cfg.EnableAdminAPI {
			ar.With(authmw.JWTMiddleware(authSvc)).
				Delete("/contents/{contentID}", api.DeleteContentHandler(registry))
		}
	})

	if cfg.EnableAdminAPI {
		r.Post("/auth/login", authmw.LoginHandler(authSvc, cfg.AdminUser, cfg.AdminPassHash))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s, h5p=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, cfg.H5PServerURL)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
