package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/sgea/academic-events/internal/core/ports"
	"github.com/sgea/academic-events/internal/core/service"
	"github.com/sgea/academic-events/internal/infrastructure/config"
	"github.com/sgea/academic-events/internal/infrastructure/db/mongo"
	"github.com/sgea/academic-events/internal/infrastructure/db/postgres"
	"github.com/sgea/academic-events/internal/infrastructure/db/redis"
	"github.com/sgea/academic-events/internal/infrastructure/render"
	"github.com/sgea/academic-events/internal/infrastructure/signer"
	"github.com/sgea/academic-events/internal/infrastructure/storage"
	"github.com/sgea/academic-events/pkg/logger"
)

// app holds configuration and the connections shared by all subcommands.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	pg          *gorm.DB
	mongoClient *mongodriver.Client
	mongoDB     *mongodriver.Database
	rdb         *goredis.Client
}

// connect opens PostgreSQL, MongoDB and Redis.
func (a *app) connect(ctx context.Context) error {
	var err error
	a.pg, err = postgres.Connect(ctx, postgres.Config{
		DSN:        a.cfg.Postgres.DSN,
		LogQueries: a.cfg.LogLevel == "debug" || a.cfg.LogLevel == "trace",
	})
	if err != nil {
		return err
	}

	a.mongoClient, a.mongoDB, err = mongo.Connect(ctx, mongo.Config{
		URI:      a.cfg.Mongo.URI,
		Database: a.cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}

	a.rdb, err = redis.Connect(ctx, redis.Config{
		Addr: a.cfg.Redis.Addr,
		DB:   a.cfg.Redis.DB,
	})
	return err
}

func (a *app) close(ctx context.Context) {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.mongoClient != nil {
		if err := mongo.Disconnect(ctx, a.mongoClient); err != nil {
			a.log.Warn().Err(err).Msg("mongo disconnect")
		}
	}
	if a.pg != nil {
		if sqlDB, err := a.pg.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// services wires repositories and adapters into the core services. mail may
// be nil for commands that never register users.
type services struct {
	users        ports.UserService
	events       ports.EventService
	enrollment   ports.EnrollmentService
	certificates ports.CertificateService
	audit        ports.AuditTrail
}

func (a *app) services(mail ports.MailQueue) (*services, error) {
	blobs, err := storage.New(a.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	userRepo := postgres.NewUserRepository(a.pg)
	eventRepo := postgres.NewEventRepository(a.pg)
	regRepo := postgres.NewRegistrationRepository(a.pg)
	certRepo := postgres.NewCertificateRepository(a.pg)
	audit := service.NewAuditTrail(mongo.NewAuditRepository(a.mongoDB), logger.Component("audit"))

	return &services{
		users: service.NewUserService(userRepo, signer.New(confirmationSecret(a.cfg.JWTSecret)), mail, audit,
			service.UserServiceConfig{
				JWTSecret:  a.cfg.JWTSecret,
				TokenTTL:   a.cfg.TokenTTL,
				ConfirmURL: a.cfg.ConfirmURL,
			}, logger.Component("users")),
		events:     service.NewEventService(userRepo, eventRepo, blobs, audit, logger.Component("events")),
		enrollment: service.NewEnrollmentService(userRepo, eventRepo, regRepo, audit, logger.Component("enrollment")),
		certificates: service.NewCertificateService(userRepo, eventRepo, regRepo, certRepo,
			blobs, render.NewTextRenderer(), redis.NewBatchLock(a.rdb), audit, logger.Component("certificates")),
		audit: audit,
	}, nil
}

// confirmationSecret keeps confirmation links and bearer tokens from being
// interchangeable.
func confirmationSecret(jwtSecret string) string {
	return jwtSecret + ":email-confirmation"
}
