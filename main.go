package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/auth"
	"storefront/basket"
	"storefront/config"
	"storefront/db"
	"storefront/logger"
	"storefront/notify"
	"storefront/routes"
	"storefront/seed"
	"storefront/service"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cf, err := config.Load(".env")
	if err != nil {
		boot := logger.New(config.EnvProduction)
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cf.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cf.DBDriver, cf.DBDSN, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cf.DBDriver).Msg("failed to open database")
	}
	if err := db.Migrate(conn); err != nil {
		log.Error().Err(err).Msg("database migration failed")
	} else if cf.SeedOnStart {
		if err := seed.Seed(ctx, conn, log); err != nil {
			log.Error().Err(err).Msg("database seeding failed")
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cf.RedisAddr,
		Password: cf.RedisPassword,
		DB:       cf.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cf.RedisAddr).Msg("redis is not reachable, basket requests will fail until it is")
	}

	hub := notify.NewHub(cf.CorsOrigin, log)
	publishers := notify.Multi{hub}
	if brokers := cf.Brokers(); len(brokers) > 0 {
		kafkaPublisher := notify.NewKafkaPublisher(notify.NewKafkaWriter(brokers, cf.KafkaOrderTopic))
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
		log.Info().Strs("brokers", brokers).Str("topic", cf.KafkaOrderTopic).Msg("publishing order events to kafka")
	}

	baskets := basket.NewRedisStore(rdb, cf.BasketTTL)
	app := routes.NewApp(routes.Deps{
		Config:  cf,
		DB:      conn,
		Baskets: baskets,
		Orders:  service.NewOrderService(conn, baskets, publishers, log),
		Tokens:  auth.NewTokenService(cf.TokenKey, cf.TokenIssuer, cf.TokenTTL),
		Hub:     hub,
		Log:     log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("port", cf.ServerPort).Str("env", cf.Env).Msg("server starting")
		return app.Listen(":" + cf.ServerPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server stopped with error")
	}

	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.Close()
	}
}
