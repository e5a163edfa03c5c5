package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/amJayem/used-books-resale-server/internal/app/config"
	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/amJayem/used-books-resale-server/internal/port/http/handler"
	"github.com/amJayem/used-books-resale-server/internal/port/http/middleware"
	"github.com/amJayem/used-books-resale-server/internal/service"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	httpServer *http.Server
	log        logger.Logger
	port       string
}

type Handlers struct {
	User     *handler.UserHandler
	Listing  *handler.ListingHandler
	Order    *handler.OrderHandler
	Category *handler.CategoryHandler
}

func NewServer(
	log logger.Logger,
	cfg config.HTTPServerConfig,
	authService service.AuthService,
	h Handlers,
) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Logging(log))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("BOOKSHOP server is running"))
	})

	// Public routes
	r.Post("/users", h.User.Register)
	r.Get("/user", h.User.GetByEmail)
	r.Get("/jwt", h.User.IssueToken)
	r.Get("/all-buyers", h.User.ListBuyers)
	r.Get("/all-sellers", h.User.ListSellers)

	r.Get("/books", h.Listing.ListByOwner)
	r.Get("/books/categoryId", h.Listing.ListByCategory)
	r.Get("/book/{id}", h.Listing.GetByID)
	r.Get("/feature/books", h.Listing.ListFeatured)

	r.Get("/categories", h.Category.ListAll)
	r.Get("/category/{id}", h.Category.GetByID)

	// Protected routes; every mutating operation requires a verified token.
	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.JWTAuth(authService, log))

		authRouter.Post("/books", h.Listing.Create)
		authRouter.Delete("/books/{id}", h.Listing.Delete)
		authRouter.Patch("/book/status/{id}", h.Listing.UpdateStatus)
		authRouter.Patch("/book/feature/{id}", h.Listing.Feature)
		authRouter.Patch("/book/feature/remove/{id}", h.Listing.Unfeature)
		authRouter.Post("/books/{id}/photo", h.Listing.UploadPhoto)

		authRouter.Post("/buyer-orders", h.Order.Create)
		authRouter.Get("/buyer-orders", h.Order.ListByBuyer)
		authRouter.Get("/buyer-orders/{id}", h.Order.GetByID)
		authRouter.Patch("/buyer-orders/success/{id}", h.Order.MarkPaid)

		authRouter.Delete("/delete/user/{id}", h.User.AdminDelete)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		httpServer: srv,
		log:        log,
		port:       cfg.Port,
	}
}

func (s *Server) Start() error {
	s.log.Infof("HTTP server is starting on port %s", s.port)

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed to serve: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("HTTP server is stopping gracefully")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Warn("graceful shutdown timed out, forcing close")
		_ = s.httpServer.Close()
		return err
	}
	s.log.Info("HTTP server stopped gracefully")
	return nil
}
