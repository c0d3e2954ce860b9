package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	dirAdapter "pet-alert-network/internal/adapters/directory"
	geoAdapter "pet-alert-network/internal/adapters/geocoding"
	mem "pet-alert-network/internal/adapters/storage/memory"
	pg "pet-alert-network/internal/adapters/storage/postgres"
	"pet-alert-network/internal/domain/alerts"
	"pet-alert-network/internal/domain/pets"
	"pet-alert-network/internal/domain/proximity"
	"pet-alert-network/internal/domain/reports"
	"pet-alert-network/internal/domain/status"
	"pet-alert-network/internal/domain/users"
	"pet-alert-network/internal/metrics"
	"pet-alert-network/internal/middleware"
	"pet-alert-network/internal/platform/logger"
	"pet-alert-network/internal/ports/auth"
	"pet-alert-network/internal/ports/geocoding"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Logger       logger.Logger     // puede ser nil (logger por defecto)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: cadena de geocodificación. Si es nil, las direcciones
	// quedan sin enriquecer.
	Geocoder geocoding.Geocoder
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	var (
		usersRepo   users.Repository
		petsRepo    pets.Repository
		statusRepo  status.Repository
		reportsRepo reports.Repository
		alertsRepo  alerts.AlertRepository
		notifsRepo  alerts.NotificationRepository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		usersRepo = pg.NewUsersRepo(db)
		petsRepo = pg.NewPetsRepo(db)
		statusRepo = pg.NewStatusRepo(db)
		reportsRepo = pg.NewReportsRepo(db)
		alertsRepo = pg.NewAlertsRepo(db)
		notifsRepo = pg.NewNotificationsRepo(db)
	} else {
		usersRepo = mem.NewUsersRepo()
		petsRepo = mem.NewPetsRepo()
		statusRepo = mem.NewStatusRepo()
		reportsRepo = mem.NewReportsRepo()
		alertsRepo = mem.NewAlertsRepo()
		notifsRepo = mem.NewNotificationsRepo()
	}

	geocoder := opts.Geocoder
	if geocoder == nil {
		geocoder = geoAdapter.NewChain(log)
	}

	// Services por módulo
	ledger := status.NewLedger(statusRepo, nil)
	usersSvc := users.NewService(usersRepo)
	petsSvc := pets.NewService(petsRepo, ledger)

	dir := dirAdapter.NewResidentsDirectory(usersRepo)
	alertsSvc := alerts.NewService(alertsRepo, notifsRepo, dir, log)

	reportsSvc := reports.NewService(reportsRepo, petsRepo, usersRepo, ledger, alertsSvc, geocoder, log)
	proximitySvc := proximity.NewService(reportsSvc)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc)
	pets.RegisterRoutes(r, petsSvc, ledger)
	reports.RegisterRoutes(r, reportsSvc)
	alerts.RegisterRoutes(r, alertsSvc)
	proximity.RegisterRoutes(r, proximitySvc)

	return r
}
