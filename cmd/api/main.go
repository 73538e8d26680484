package main

import (
	"time"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/config"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/logging"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/media"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/repository/minio"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/repository/postgres"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/repository/redis"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/service"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/token"
	transport "github.com/njprem/Portfolio_APP_BackEnd/internal/transport/http"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/transport/mail"
)

const authRateLimit = 5

func main() {
	cfg := config.Load()
	log := logging.New("portfolio-api", cfg.Env, cfg.LogstashTCPAddr)
	development := cfg.Env == "development"

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer db.Close()

	minioClient, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect minio")
	}
	storage := minio.NewStorage(minioClient, cfg.MinIOPublicURL, cfg.MinIOUseSSL)

	var limiter *redis.RateLimiter
	if cfg.RedisAddr != "" {
		limiter = redis.NewRateLimiter(redis.NewClient(cfg.RedisAddr, cfg.RedisPassword), time.Hour)
	}

	tokens := token.NewManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTResetSecret)
	mailer := mail.NewResetMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	processor := media.NewWebPConverter(cfg.FFMPEGPath)

	userRepo := postgres.NewUserRepo(db)
	userResourceRepo := postgres.NewUserResourceRepo(db)
	exampleRepo := postgres.NewExampleResourceRepo(db)

	authSvc := service.NewAuthService(userRepo, tokens, mailer, cfg.GoogleAudience, log)
	profileSvc := service.NewProfileService(userRepo, tokens)
	avatarUploader := service.NewImageUploader(processor, storage, cfg.MinIOBucketUsers, "user")
	exampleUploader := service.NewImageUploader(processor, storage, cfg.MinIOBucketExamples, "example")

	userCrud := service.NewCrudService(userResourceRepo, postgres.UserSpec, storage, cfg.MinIOBucketUsers, func(u *domain.User) []string {
		if u.Image != nil {
			return []string{*u.Image}
		}
		return nil
	}, log)
	userSvc := service.NewUserService(userCrud, userRepo)

	exampleCrud := service.NewCrudService(exampleRepo, postgres.ExampleSpec, storage, cfg.MinIOBucketExamples, (*domain.Example).ImageObjects, log)
	exampleSvc := service.NewExampleService(exampleCrud, exampleUploader)

	e := transport.NewRouter(cfg.AllowOrigins, log, development)

	secureCookies := !development
	transport.RegisterAuth(e, authSvc, secureCookies, transport.RateLimit(limiter, authRateLimit))
	transport.RegisterUsers(e, authSvc, userSvc)
	transport.RegisterProfile(e, authSvc, profileSvc, avatarUploader, secureCookies)
	transport.RegisterExamples(e, authSvc, exampleSvc)
	transport.RegisterSwagger(e)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
