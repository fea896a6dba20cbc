// Package internal wires the HTTP surface of the inventory service: the
// chi router, the working-set sync layer, the record writer, the report
// generators, and the bulk importer.
package internal

import (
	"context"
	"database/sql"
	"embed"
	"net/http"
	"strings"
	"time"

	"github.com/jbautista-a11y/inventario-ti/internal/auth"
	"github.com/jbautista-a11y/inventario-ti/internal/cache"
	"github.com/jbautista-a11y/inventario-ti/internal/config"
	"github.com/jbautista-a11y/inventario-ti/internal/handlers"
	"github.com/jbautista-a11y/inventario-ti/internal/models"
	"github.com/jbautista-a11y/inventario-ti/internal/reportes"
	"github.com/jbautista-a11y/inventario-ti/internal/schema"
	"github.com/jbautista-a11y/inventario-ti/internal/store"
	"github.com/jbautista-a11y/inventario-ti/pkg/importer"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

//go:embed openapi
var openapiFS embed.FS

type Server struct {
	DB         *sql.DB
	Pool       *pgxpool.Pool
	Router     *chi.Mux
	JWTManager *auth.JWTManager
	Metrics    *Metrics
	Store      *store.Store
	Cache      *cache.WorkingSet
	Filler     *reportes.ActaFiller
	Vocab      schema.Vocabulary
	Logger     *zap.Logger

	cfg *config.Config
}

func NewServer(dsn string, cfg *config.Config, logger *zap.Logger) *Server {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal("failed to open database connection", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("database ping failed", zap.Error(err))
	}

	// Also create a pgxpool for the importer
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("failed to create pgxpool", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry)
	if err := jwtManager.ValidateConfig(); err != nil {
		logger.Fatal("JWT configuration validation failed", zap.Error(err))
	}

	vocab := schema.DefaultVocabulary()
	if cfg.VocabPath != "" {
		vocab, err = schema.LoadVocabulary(cfg.VocabPath)
		if err != nil {
			logger.Fatal("failed to load vocabulary", zap.String("path", cfg.VocabPath), zap.Error(err))
		}
	}

	s := &Server{
		DB:         db,
		Pool:       pool,
		Router:     chi.NewRouter(),
		JWTManager: jwtManager,
		Metrics:    NewMetrics(),
		Store:      store.New(db, cfg.PageSize),
		Cache:      cache.New(cfg.CacheTTL),
		Filler:     reportes.NewActaFiller(cfg.ActaTemplate),
		Vocab:      vocab,
		Logger:     logger,
		cfg:        cfg,
	}

	s.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.Router.Use(s.requestLogger)

	// Mount public routes FIRST (no auth middleware)
	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	s.Router.Get("/dbping", func(w http.ResponseWriter, r *http.Request) {
		if err := s.DB.PingContext(r.Context()); err != nil {
			http.Error(w, "db: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		if _, err := w.Write([]byte("db: ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	// Public auth routes (no JWT required)
	s.Router.Post("/auth/login", s.loginUser)
	s.mountDocs(s.Router)

	// Mount metrics if enabled
	if cfg.EnableMetrics {
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	// Create a protected route group with middleware
	s.Router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(s.JWTManager))
		s.mountProtectedRoutes(r)
	})

	return s
}

// Close properly shuts down the server and cleans up resources
func (s *Server) Close(ctx context.Context) error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// requestLogger logs each request at debug level with method, path, and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.Logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.code),
			zap.Duration("duration", time.Since(start)))
	})
}

// mountDocs serves the OpenAPI spec and Swagger UI
func (s *Server) mountDocs(mux *chi.Mux) {
	if !s.cfg.EnableSwagger {
		return
	}

	// Serve the raw YAML
	mux.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := openapiFS.ReadFile("openapi/openapi.yaml")
		if err != nil {
			http.Error(w, "Failed to read OpenAPI spec", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		if _, err := w.Write(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	// Serve Swagger UI page
	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		w.Write([]byte(`<!doctype html>
<html lang="es">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Inventario TI - Documentacion</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css">
    <style>
        body { margin: 0; background: #f7f7f7; }
        .swagger-ui .topbar { background: #1f2937; border-bottom: 3px solid #3b82f6; }
        .swagger-ui .topbar .download-url-wrapper { display: none; }
        .swagger-ui .info { margin: 20px 0; }
        .swagger-ui .info .title { color: #1f2937; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: '/openapi.yaml',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIBundle.presets.standalone
                ],
                layout: "StandaloneLayout",
                tryItOutEnabled: true
            });
        };
    </script>
</body>
</html>`))
	})
}

// mountProtectedRoutes mounts all protected routes that require authentication
func (s *Server) mountProtectedRoutes(r chi.Router) {
	// Inventory - any authenticated role reads, soporte and administrador
	// write, only administrador deletes
	r.Get("/inventario", s.listInventario)
	r.Get("/inventario/opciones", s.opcionesInventario)
	r.Get("/inventario/{id}", s.getInventario)
	r.Get("/inventario/{id}/acta", s.actaInventario)
	r.Post("/inventario", auth.MustRole("administrador", "soporte")(http.HandlerFunc(s.createInventario)).(http.HandlerFunc))
	r.Put("/inventario/{id}", auth.MustRole("administrador", "soporte")(http.HandlerFunc(s.updateInventario)).(http.HandlerFunc))
	r.Delete("/inventario/{id}", auth.MustRole("administrador")(http.HandlerFunc(s.deleteInventario)).(http.HandlerFunc))

	// Dashboard
	r.Get("/dashboard/resumen", s.dashboardResumen)

	// Bulk Excel import
	importsHandler := handlers.NewImportsHandler(s.Pool)
	importsHandler.OnResult = func(sum importer.Summary, actor string) {
		s.Metrics.ObserveImport(sum.Inserted, sum.Skipped, sum.Errors)
		if sum.DryRun {
			return
		}
		if sum.Inserted > 0 {
			s.Cache.Invalidate()
		}
		detail := "Importacion " + sum.BatchID.String()
		if err := s.Store.RecordAudit(context.Background(), actor, models.AuditImport, detail); err != nil {
			s.Logger.Warn("audit write failed",
				zap.String("actor", actor),
				zap.String("action", models.AuditImport),
				zap.Error(err))
		}
	}
	r.Get("/imports/plantilla", s.plantillaInventario)
	r.Post("/imports/excel", auth.MustRole("administrador", "soporte")(http.HandlerFunc(importsHandler.UploadExcel)).(http.HandlerFunc))

	// Audit trail - administrador only
	r.Get("/logs", auth.MustRole("administrador")(http.HandlerFunc(s.listLogs)).(http.HandlerFunc))

	// User management - administrador only
	r.Post("/users", auth.MustRole("administrador")(http.HandlerFunc(s.createUser)).(http.HandlerFunc))
	r.Get("/users", auth.MustRole("administrador")(http.HandlerFunc(s.listUsers)).(http.HandlerFunc))
	r.Get("/users/{id}", auth.MustRole("administrador")(http.HandlerFunc(s.getUser)).(http.HandlerFunc))
	r.Delete("/users/{id}", auth.MustRole("administrador")(http.HandlerFunc(s.deleteUser)).(http.HandlerFunc))

	// Self-service routes
	r.Get("/auth/profile", s.getUserProfile)
	r.Put("/auth/change-password", s.changePassword)
}
