package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/4ka0/simple-inventory/internal/auth"
	"github.com/4ka0/simple-inventory/internal/handlers"
	"github.com/4ka0/simple-inventory/internal/httpx"
	"github.com/4ka0/simple-inventory/internal/models"
	"github.com/4ka0/simple-inventory/internal/view"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, log *zap.Logger, mediaDir string) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "degraded", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- Public routes ---
	ah := handlers.NewAuthHandler(db)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		view.Render(w, r, "index.html", nil)
	})
	mux.HandleFunc("GET /login", ah.Login)
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("GET /signup", ah.Signup)
	mux.HandleFunc("POST /signup", ah.Signup)
	mux.HandleFunc("GET /logout", ah.Logout)
	mux.HandleFunc("POST /logout", ah.Logout)

	// --- Stock catalog ---
	sh := handlers.NewStockHandler(db)
	mux.Handle("GET /stock", requireAuth(sh.List))
	mux.Handle("GET /stock/new", requireAuth(sh.New))
	mux.Handle("POST /stock", requireAuth(sh.Create))
	mux.Handle("GET /stock/{id}/edit", requireAuth(sh.Edit))
	mux.Handle("POST /stock/{id}", requireAuth(sh.Update))
	mux.Handle("POST /stock/{id}/delete", requireAuth(sh.Delete))

	// --- Sales ---
	slh := handlers.NewSaleHandler(db)
	mux.Handle("GET /sales", requireAuth(slh.List))
	mux.Handle("GET /sales/new", requireAuth(slh.New))
	mux.Handle("POST /sales", requireAuth(slh.Create))
	mux.Handle("GET /sales/{id}/edit", requireAuth(slh.Edit))
	mux.Handle("POST /sales/{id}", requireAuth(slh.Update))
	mux.Handle("POST /sales/{id}/delete", requireAuth(slh.Delete))

	// --- CSV upload ---
	uh := handlers.NewUploadHandler(db, mediaDir)
	mux.Handle("GET /sales/upload", requireAuth(uh.New))
	mux.Handle("POST /sales/upload", requireAuth(uh.Upload))

	// --- Statistics ---
	sth := handlers.NewStatsHandler(db)
	mux.Handle("GET /stats", requireAuth(sth.List))

	// --- Static files ---
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	return auth.Middleware(withRecover(log, withLogging(log, mux)))
}

func requireAuth(h http.HandlerFunc) http.Handler {
	return auth.RequireAuth(h)
}

func withLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func withRecover(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
