package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	migrate "github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/app/config"
	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/domain/service"
	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/gateway"
	appamqp "github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/infrastructure/amqp"
	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/infrastructure/media"
	appmysql "github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/infrastructure/mysql"
	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/transport"
)

const appID = "rickbertfashion"

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	app := &cli.App{
		Name:   appID,
		Usage:  "fashion storefront backend",
		Action: runService,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("service failed")
	}
}

func runService(_ *cli.Context) error {
	cfg, err := config.Parse(appID)
	if err != nil {
		return err
	}

	db, err := sqlx.Connect("mysql", cfg.DatabaseDSN)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer db.Close()

	if err := applyMigrations(db, cfg.MigrationsDir); err != nil {
		return err
	}

	dispatcher, closeDispatcher, err := buildDispatcher(cfg)
	if err != nil {
		return err
	}
	defer closeDispatcher()

	products := appmysql.NewProductRepository(db)
	orders := appmysql.NewOrderRepository(db)

	gw := gateway.NewClient(gateway.Config{
		Name:        cfg.GatewayName,
		BaseURL:     cfg.GatewayBaseURL,
		SecretKey:   cfg.GatewaySecretKey,
		CallbackURL: cfg.GatewayCallbackURL,
	}, nil)

	catalog := service.NewCatalogService(products, media.NewStore(cfg.MediaDir), dispatcher)
	checkout := service.NewCheckoutService(orders, products, gw, dispatcher)

	srv := &http.Server{
		Addr:    cfg.ServeRESTAddress,
		Handler: transport.Router(catalog, checkout),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("address", cfg.ServeRESTAddress).Info("starting server")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "serve http")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func applyMigrations(db *sqlx.DB, migrationsDir string) error {
	driver, err := migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	if err != nil {
		return errors.Wrap(err, "create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "mysql", driver)
	if err != nil {
		return errors.Wrap(err, "create migrator")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

func buildDispatcher(cfg *config.Config) (service.EventDispatcher, func(), error) {
	if cfg.AMQPURL == "" {
		log.Info("amqp url not configured, dispatching events to log only")
		return logDispatcher{}, func() {}, nil
	}

	dispatcher, err := appamqp.NewDispatcher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, nil, err
	}
	return dispatcher, func() {
		if err := dispatcher.Close(); err != nil {
			log.WithError(err).Warn("failed to close amqp dispatcher")
		}
	}, nil
}

type logDispatcher struct{}

func (logDispatcher) Dispatch(event service.Event) error {
	log.WithField("event", event.Type()).Info("domain event")
	return nil
}
