package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"leadgen-backend/internal/companies"
	"leadgen-backend/internal/derive"
	"leadgen-backend/internal/ingest"
	"leadgen-backend/internal/leads"
	"leadgen-backend/internal/providers"
	"leadgen-backend/internal/providers/mock"
	"leadgen-backend/internal/shared/config"
	"leadgen-backend/internal/shared/server/middleware"
	"leadgen-backend/internal/shared/server/respond"
	"leadgen-backend/internal/shared/storage/db"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var companyRepo companies.Repo
	var runRepo ingest.RunRepo
	if sqlDB != nil {
		companyRepo = &companies.PGRepo{DB: sqlDB}
		runRepo = &ingest.PGRepo{DB: sqlDB}
	} else {
		companyRepo = companies.NewMemoryRepo()
		runRepo = ingest.NewMemoryRepo()
	}

	gateway := providers.DefaultGateway(mock.New())
	ingestSvc := ingest.NewService(cfg, runRepo, companyRepo, gateway)
	ingestHandler := ingest.NewHandler(ingestSvc)

	profile := derive.NewProfile(cfg.LineOfBusiness, cfg.Capabilities)
	leadSvc := leads.NewService(runRepo, companyRepo, profile)
	leadHandler := leads.NewHandler(leadSvc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	ingestHandler.RegisterRoutes(api)
	leadHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
