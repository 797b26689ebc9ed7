package main

import (
	"context"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"gatepass/gateway"
	"gatepass/notification"
	"gatepass/service"
	"gatepass/tracing"
)

type options struct {
	Addr        string `long:"addr" env:"ADDR" default:":8080" description:"HTTP listen address"`
	PostgresURL string `long:"postgres-url" env:"POSTGRES_URL" required:"true" description:"Postgres connection string"`
	RedisAddr   string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address for the catalog cache"`

	GatewayKey  string `long:"gateway-key" env:"GATEWAY_KEY" required:"true" description:"payment gateway merchant key"`
	GatewaySalt string `long:"gateway-salt" env:"GATEWAY_SALT" required:"true" description:"payment gateway merchant salt"`
	GatewayURL  string `long:"gateway-url" env:"GATEWAY_URL" default:"https://test.payu.in" description:"payment gateway base URL"`

	TokenSecret string `long:"token-secret" env:"TOKEN_SECRET" required:"true" description:"secret for QR verification tokens"`

	MailProvider string `long:"mail-provider" env:"MAIL_PROVIDER" default:"ethereal" choice:"smtp" choice:"ethereal" description:"transactional mail channel"`
	SMTPHost     string `long:"smtp-host" env:"SMTP_HOST" default:"smtp.ethereal.email" description:"SMTP relay host"`
	SMTPPort     int    `long:"smtp-port" env:"SMTP_PORT" default:"587" description:"SMTP relay port"`
	SMTPUser     string `long:"smtp-user" env:"SMTP_USER" description:"SMTP username"`
	SMTPPassword string `long:"smtp-password" env:"SMTP_PASSWORD" description:"SMTP password"`
	MailFrom     string `long:"mail-from" env:"MAIL_FROM" default:"tickets@gatepass.local" description:"From address for booking mail"`

	JaegerEndpoint string `long:"jaeger-endpoint" env:"JAEGER_ENDPOINT" description:"jaeger collector endpoint"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	tp := tracing.ConfigureTraceProvider(opts.JaegerEndpoint)
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	sqlDB, err := otelsql.Open("postgres", opts.PostgresURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		panic(err)
	}
	dbConn := sqlx.NewDb(sqlDB, "postgres")
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: opts.RedisAddr,
	})
	defer redisClient.Close()

	gatewayHTTPClient := &nethttp.Client{Transport: otelhttp.NewTransport(nethttp.DefaultTransport)}
	gatewayClient := gateway.NewClient(opts.GatewayKey, opts.GatewaySalt, opts.GatewayURL, gatewayHTTPClient)

	mailSender := notification.NewSMTPSender(notification.SMTPConfig{
		Provider: opts.MailProvider,
		Host:     opts.SMTPHost,
		Port:     opts.SMTPPort,
		Username: opts.SMTPUser,
		Password: opts.SMTPPassword,
		From:     opts.MailFrom,
	})

	svc := service.New(
		opts.Addr,
		opts.TokenSecret,
		dbConn,
		redisClient,
		gatewayClient,
		mailSender,
		opts.MailProvider,
	)

	if err := svc.Run(ctx); err != nil {
		logrus.WithError(err).Fatal("service stopped")
	}
}
