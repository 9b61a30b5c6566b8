package router

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	mem "ayurveda-repository/internal/adapters/storage/memory"
	pg "ayurveda-repository/internal/adapters/storage/postgres"
	_ "ayurveda-repository/internal/docs"
	"ayurveda-repository/internal/domain/admin"
	"ayurveda-repository/internal/domain/plants"
	"ayurveda-repository/internal/domain/session"
	"ayurveda-repository/internal/domain/share"
	"ayurveda-repository/internal/middleware"
	"ayurveda-repository/internal/platform/logger"
	"ayurveda-repository/internal/platform/metrics"
	"ayurveda-repository/internal/ports/auth"
	"ayurveda-repository/internal/ports/objectstore"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	LoginPath = "/login"
	MediaPath = "/media"
)

type Options struct {
	Logger logger.Logger // nil => Nop

	// Registros: Records si viene; si no, Postgres con DB; si no, in-memory.
	Records plants.Repository
	DB      *sql.DB

	// Imágenes: si Objects es nil se usa un store in-memory servido en /media.
	// Si Objects también implementa objectstore.Reader, se sirve en /media.
	Objects objectstore.Store

	Sessions auth.SessionProvider // puede ser nil (sin login)
	Verifier auth.AuthVerifier    // puede ser nil (modo dev)

	BaseURL     string
	SuccessTTL  time.Duration
	CORSOrigins []string

	// nil => registry propio con collectors de Go y proceso
	Registry *prometheus.Registry
}

// NewRouter arma el handler y devuelve la función que suelta las suscripciones de sesión.
func NewRouter(opts Options) (http.Handler, func()) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	baseURL := share.BaseURLOr(opts.BaseURL)

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	m, err := metrics.New(reg)
	if err != nil {
		log.Warn("metrics disabled", map[string]any{"error": err})
		m = nil
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(corsOptions(opts.CORSOrigins)))

	r.Use(middleware.AuthContext(opts.Verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Repo de registros
	repo := opts.Records
	if repo == nil {
		if opts.DB != nil {
			repo = pg.NewPlantsRepo(opts.DB)
		} else {
			repo = mem.NewPlantRepo()
		}
	}

	// Object store
	objects := opts.Objects
	if objects == nil {
		objects = mem.NewObjectStore(baseURL + MediaPath)
	}
	if reader, ok := objects.(objectstore.Reader); ok {
		r.Get(MediaPath+"/*", mediaHandler(reader))
	}

	// Services
	plantsSvc := plants.NewService(repo)
	uploader := plants.NewUploader(objects)

	sessions := session.NewManager(opts.Sessions, opts.Verifier, log)
	registry := admin.NewRegistry(admin.Deps{
		Records:    plantsSvc,
		Uploader:   uploader,
		Metrics:    m,
		Log:        log,
		BaseURL:    baseURL,
		SuccessTTL: opts.SuccessTTL,
	})

	unsubscribers := []func(){
		sessions.Subscribe(registry.OnSessionChange),
		sessions.Subscribe(func(e session.Event) { m.SessionEvent(string(e.Type)) }),
	}

	// Rutas por módulo
	session.RegisterRoutes(r, sessions)
	plants.RegisterRoutes(r, plantsSvc, baseURL)
	admin.RegisterRoutes(r, registry, LoginPath)

	teardown := func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
	return r, teardown
}

func corsOptions(origins []string) cors.Options {
	allowCredentials := true
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
		allowCredentials = false
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Debug-User-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}
}

// mediaHandler sirve las imágenes de los stores locales (memoria / disco).
func mediaHandler(reader objectstore.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objectPath := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		data, contentType, err := reader.Get(r.Context(), objectPath)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=86400")
		// contenido subido por usuarios: sin sniffing y sin ejecutar scripts
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "sandbox; default-src 'none'; img-src 'self'")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
