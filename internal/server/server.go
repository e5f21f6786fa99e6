package server

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/keirara04/labmarket-backend/internal/clock"
	"github.com/keirara04/labmarket-backend/internal/config"
	"github.com/keirara04/labmarket-backend/internal/handler"
	appmw "github.com/keirara04/labmarket-backend/internal/middleware"
	"github.com/keirara04/labmarket-backend/internal/repository"
	"github.com/keirara04/labmarket-backend/internal/service"
	"github.com/keirara04/labmarket-backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e           *echo.Echo
	listingRepo repository.ListingRepository
	txRepo      repository.TransactionRepository
	reviewRepo  repository.ReviewRepository
	ledgerRepo  repository.TrustLedgerRepository
	notifRepo   repository.NotificationRepository
	txm         repository.TxManager
	sha         string
	build       string
}

func New(db *gorm.DB, cfg *config.Config, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	listingRepo := repository.NewListingRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	ledgerRepo := repository.NewTrustLedgerRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	txm := repository.NewTxManager(db)

	notifSvc := service.NewNotificationService(notifRepo)
	listingSvc := service.NewListingService(listingRepo)
	txnSvc := service.NewTransactionService(txm, txRepo, listingSvc, reviewRepo, ledgerRepo, notifSvc, clock.NewSystem())
	trustSvc := service.NewTrustService(ledgerRepo)
	reviewSvc := service.NewReviewService(reviewRepo)

	listingHandler := handler.NewListingHandler(listingSvc, txnSvc)
	txnHandler := handler.NewTransactionHandler(txnSvc)
	profileHandler := handler.NewProfileHandler(trustSvc, reviewSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)

	var photoHandler *handler.PhotoHandler
	if cfg != nil && cfg.StorageBucket != "" {
		uploader, err := storage.NewUploader(context.Background(), cfg.StorageBucket, cfg.CredentialsFile)
		if err != nil {
			log.Printf("photo storage init failed: %v", err)
		} else {
			photoHandler = handler.NewPhotoHandler(uploader)
		}
	}

	var auth []echo.MiddlewareFunc
	if cfg != nil && cfg.FirebaseProjectID != "" {
		authMw, err := appmw.NewAuthMiddleware(context.Background(), cfg.FirebaseProjectID)
		if err != nil {
			e.Logger.Fatalf("failed to init firebase auth: %v", err)
		}
		auth = append(auth, authMw.RequireAuth)
	} else {
		log.Printf("FIREBASE_PROJECT_ID not set; running without auth (local dev only)")
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")
	api.POST("/listings", listingHandler.Create, auth...)
	api.PUT("/listings/:id", listingHandler.Update, auth...)
	api.GET("/listings", listingHandler.List)
	api.GET("/listings/:id", listingHandler.Get)
	api.GET("/me/listings", listingHandler.ListMine, auth...)
	api.POST("/listings/:id/sold", listingHandler.MarkSold, auth...)
	api.POST("/listings/:id/reopen", listingHandler.Reopen, auth...)
	api.POST("/transactions/:id/confirm", txnHandler.Confirm, auth...)
	api.POST("/transactions/:id/reject", txnHandler.Reject, auth...)
	api.GET("/me/confirmations", txnHandler.ListConfirmations, auth...)
	api.GET("/me/sales", txnHandler.ListSales, auth...)
	api.GET("/users/:uid/trust", profileHandler.GetTrust)
	api.GET("/users/:uid/reviews", profileHandler.GetReviews)
	api.GET("/me/notifications", notifHandler.List, auth...)
	api.POST("/me/notifications/read", notifHandler.MarkAllRead, auth...)
	if photoHandler != nil {
		api.POST("/photos", photoHandler.Upload, auth...)
	}

	return &Server{
		e:           e,
		listingRepo: listingRepo,
		txRepo:      txRepo,
		reviewRepo:  reviewRepo,
		ledgerRepo:  ledgerRepo,
		notifRepo:   notifRepo,
		txm:         txm,
		sha:         sha,
		build:       buildTime,
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// SetDB attaches a late-connected database to every repository. The server
// starts serving /healthz before the DB is up; data routes return errors
// until this is called.
func (s *Server) SetDB(db *gorm.DB) {
	s.listingRepo.SetDB(db)
	s.txRepo.SetDB(db)
	s.reviewRepo.SetDB(db)
	s.ledgerRepo.SetDB(db)
	s.notifRepo.SetDB(db)
	s.txm.SetDB(db)
}
