package service

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"gatepass/artifact"
	"gatepass/db"
	"gatepass/db/bookings"
	"gatepass/db/events"
	"gatepass/http"
	"gatepass/log"
	"gatepass/notification"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type Service struct {
	db         *sqlx.DB
	httpServer *http.Server
}

func New(
	addr string,
	tokenSecret string,
	dbConn *sqlx.DB,
	redisClient *redis.Client,
	gatewayClient http.PaymentGateway,
	mailSender notification.Sender,
	mailProvider string,
) Service {
	bookingsRepo := bookings.NewPostgresRepository(dbConn)
	eventsRepo := events.NewCachedRepository(events.NewPostgresRepository(dbConn), redisClient)

	imageClient := &nethttp.Client{Transport: otelhttp.NewTransport(nethttp.DefaultTransport)}
	artifacts := artifact.NewGenerator(imageClient)

	notifier := notification.NewDispatcher(mailSender, mailProvider)

	httpServer := http.NewServer(
		addr,
		tokenSecret,
		gatewayClient,
		bookingsRepo,
		eventsRepo,
		artifacts,
		notifier,
	)

	return Service{
		db:         dbConn,
		httpServer: httpServer,
	}
}

func (s Service) Run(ctx context.Context) error {
	if err := db.InitializeDatabaseSchema(s.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.httpServer.Run(ctx)
	})

	return g.Wait()
}
