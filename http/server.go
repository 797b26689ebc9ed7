package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"gatepass/entity"
	"gatepass/log"
)

type PaymentGateway interface {
	VerifyTransaction(ctx context.Context, transactionID string) (entity.Transaction, error)
}

type BookingsRepository interface {
	Exists(ctx context.Context, transactionID string) (bool, error)
	Create(ctx context.Context, booking entity.Booking, capacity int) (bool, error)
}

type EventsRepository interface {
	Store(ctx context.Context, event entity.CatalogEvent) error
	Get(ctx context.Context, eventID string) (entity.CatalogEvent, error)
}

type ArtifactGenerator interface {
	Generate(ctx context.Context, booking entity.Booking, event entity.CatalogEvent) ([]byte, error)
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, booking entity.Booking, event entity.CatalogEvent, pdf []byte) entity.NotificationAttempt
}

type Server struct {
	addr        string
	e           *echo.Echo
	tokenSecret string

	gateway      PaymentGateway
	bookingsRepo BookingsRepository
	eventsRepo   EventsRepository
	artifacts    ArtifactGenerator
	notifier     NotificationDispatcher
}

func NewServer(
	addr string,
	tokenSecret string,
	gateway PaymentGateway,
	bookingsRepo BookingsRepository,
	eventsRepo EventsRepository,
	artifacts ArtifactGenerator,
	notifier NotificationDispatcher,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("gatepass"))
	e.Use(correlationIDMiddleware)

	server := &Server{
		addr:         addr,
		e:            e,
		tokenSecret:  tokenSecret,
		gateway:      gateway,
		bookingsRepo: bookingsRepo,
		eventsRepo:   eventsRepo,
		artifacts:    artifacts,
		notifier:     notifier,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/payments/:transaction_id/callback", server.PostPaymentCallback)

	e.POST("/events", server.PostEvents)
	e.GET("/events/:event_id", server.GetEvent)

	return server
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(ctx)
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()
	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeHTTP lets tests drive the server without binding a port.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func correlationIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		correlationID := c.Request().Header.Get("Correlation-ID")
		if correlationID == "" {
			correlationID = shortuuid.New()
		}

		ctx := log.ContextWithCorrelationID(c.Request().Context(), correlationID)
		ctx = log.ToContext(ctx, logrus.WithFields(logrus.Fields{"correlation_id": correlationID}))
		c.SetRequest(c.Request().WithContext(ctx))

		c.Response().Header().Set("Correlation-ID", correlationID)

		return next(c)
	}
}
