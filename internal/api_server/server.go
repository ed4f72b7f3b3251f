package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/hiredeck/hiredeck/internal/auth"
	"github.com/hiredeck/hiredeck/internal/config"
	"github.com/hiredeck/hiredeck/internal/events"
	handlers "github.com/hiredeck/hiredeck/internal/handlers/v1"
	"github.com/hiredeck/hiredeck/internal/service"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/pkg/metrics"
	"github.com/hiredeck/hiredeck/pkg/middleware"
	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of the hiredeck API server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth)
	if err != nil {
		return err
	}

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Service.CORSOrigins,
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "OK")
	})

	// the events producer backing notification fan-out
	writer, err := newEventWriter(s.cfg)
	if err != nil {
		return err
	}
	producerOpts := []events.ProducerOptions{}
	if s.cfg.Service.Kafka.Topic != "" {
		producerOpts = append(producerOpts, events.WithOutputTopic(s.cfg.Service.Kafka.Topic))
	}
	eventProducer := events.NewEventProducer(writer, producerOpts...)
	defer func() {
		_ = eventProducer.Close()
	}()

	authzSrv := service.NewAuthzService(s.store)
	notificationSrv := service.NewNotificationService(s.store, eventProducer)
	applicationSrv := service.NewApplicationService(s.store, authzSrv, notificationSrv, eventProducer)
	projectionSrv := service.NewProjectionService(s.store, authzSrv)
	jobPostSrv := service.NewJobPostService(s.store, authzSrv)

	h := handlers.NewServiceHandler(applicationSrv, projectionSrv, notificationSrv, jobPostSrv)
	router.Group(func(r chi.Router) {
		r.Use(authenticator.Authenticator)
		h.Routes(r)
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}

// newEventWriter picks kafka when brokers are configured, stdout otherwise.
func newEventWriter(cfg *config.Config) (events.Writer, error) {
	if len(cfg.Service.Kafka.Brokers) > 0 {
		return events.NewKafkaWriter(cfg.Service.Kafka.Brokers, cfg.Service.Kafka.ClientID)
	}
	return &events.StdoutWriter{}, nil
}
