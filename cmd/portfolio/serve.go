package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"portfolio/config"
	"portfolio/controllers"
	"portfolio/global"
	"portfolio/middlewares"
	"portfolio/models"
	"portfolio/router"
	"portfolio/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if cfg.Database.AutoMigrate {
		if err := models.AutoMigrate(db); err != nil {
			return err
		}
	}

	rdb, err := config.InitRedis(cfg)
	if err != nil {
		return err
	}
	ch, err := config.InitRabbit(cfg)
	if err != nil {
		return err
	}
	defer closeRabbit()

	var store services.LikeStore = services.NewSQLLikeStore(db)
	if cfg.Likes.Backend == "redis" {
		if rdb == nil {
			return errors.New("likes.backend is redis but redis.addr is empty")
		}
		store = services.NewRedisLikeStore(rdb)
	}
	logger.Info("like store selected", zap.String("backend", cfg.Likes.Backend))

	var notifier services.Notifier = services.NopNotifier{}
	if ch != nil {
		notifier = services.NewAMQPNotifier(ch, cfg.RabbitMQ.Queue)
	}

	mailer, err := newMailer(ctx)
	if err != nil {
		return err
	}

	captcha := services.NewRecaptchaVerifier(cfg.Captcha.SecretKey, cfg.Captcha.VerifyURL, cfg.Captcha.Timeout)
	comments := services.NewCommentService(db, store, captcha, notifier, logger)
	likes := services.NewLikeService(store, captcha, comments)
	contact := services.NewContactService(captcha, mailer)

	basic := middlewares.BasicAuthenticator{
		Username:     cfg.Admin.Username,
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
	}
	var adminAuth middlewares.Authenticator = basic
	tokens := middlewares.JWTAuthenticator{Secret: cfg.Admin.JWTSecret, TTL: cfg.Admin.TokenTTL}
	if cfg.Admin.JWTSecret != "" {
		adminAuth = middlewares.AnyAuthenticator{basic, tokens}
	}

	gin.SetMode(cfg.App.Mode)
	engine, err := router.SetupRouter(router.Options{
		Logger:         logger,
		AllowOrigins:   cfg.CORS.AllowOrigins,
		PlatformHeader: cfg.Identity.PlatformHeader,
		TrustedProxies: cfg.Identity.TrustedProxies,
		Comments:       &controllers.CommentController{Comments: comments},
		Likes:          &controllers.LikeController{Likes: likes},
		Contact:        &controllers.ContactController{Contact: contact},
		Admin:          &controllers.AdminController{Comments: comments, Tokens: tokens},
		Health:         &controllers.HealthController{DB: db},
		AdminAuth:      adminAuth,
		TokenAuth:      basic,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newMailer uses SES when a sender and recipient are configured and falls
// back to logging the message otherwise.
func newMailer(ctx context.Context) (services.Mailer, error) {
	if cfg.Mail.From == "" || cfg.Mail.To == "" {
		logger.Warn("mail not configured, contact messages will only be logged")
		return services.LogMailer{Log: logger}, nil
	}
	return services.NewSESMailer(ctx, services.SESConfig{
		Region:          cfg.Mail.Region,
		AccessKeyID:     cfg.Mail.AccessKeyID,
		SecretAccessKey: cfg.Mail.SecretAccessKey,
		From:            cfg.Mail.From,
		To:              cfg.Mail.To,
	})
}

func closeRabbit() {
	if global.RabbitChannel != nil {
		_ = global.RabbitChannel.Close()
	}
	if global.RabbitConn != nil {
		_ = global.RabbitConn.Close()
	}
}
