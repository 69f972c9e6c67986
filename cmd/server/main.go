package main // Entry point package

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/madhavprabhu/hostelhub/internal/config"
	"github.com/madhavprabhu/hostelhub/internal/database"
	"github.com/madhavprabhu/hostelhub/internal/handler"
	"github.com/madhavprabhu/hostelhub/internal/logger"
	"github.com/madhavprabhu/hostelhub/internal/middleware"
	"github.com/madhavprabhu/hostelhub/internal/queue"
	"github.com/madhavprabhu/hostelhub/internal/realtime"
	"github.com/madhavprabhu/hostelhub/internal/repository"
	"github.com/madhavprabhu/hostelhub/internal/router"
	"github.com/madhavprabhu/hostelhub/internal/service"
)

func main() {
	// .env is optional; deployments set real environment variables.
	_ = godotenv.Load()

	log := logger.New()
	defer log.Sync()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	// Redis is optional: without it the rate limiter and response cache
	// become pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warnw("redis unavailable, rate limiting and caching disabled")
	}

	// The broker consumer mirrors announcement fan-outs into an audit log.
	// It reconnects on its own; a missing broker only costs the audit trail.
	go func() {
		if err := queue.StartAnnouncementConsumer(); err != nil {
			log.Warnw("announcement consumer stopped", "error", err)
		}
	}()

	users := repository.NewUserRepo(db)
	admins := repository.NewAdminRepo(db)
	announcements := repository.NewAnnouncementRepo(db)
	notifications := repository.NewNotificationRepo(db)
	complaints := repository.NewComplaintRepo(db)
	logbook := repository.NewLogBookRepo(db)
	payments := repository.NewPaymentRepo(db)
	contacts := repository.NewContactRepo(db)

	seedAdmin(log, admins, cfg)

	hub := realtime.NewHub(log, cfg.ClientURL)
	notifier := service.NewNotifier(users, notifications, hub, log)
	sessions := middleware.NewSessions(cfg, users, admins)

	authH := handler.NewAuthHandler(cfg, users, sessions, log)
	adminAuthH := handler.NewAdminAuthHandler(cfg, admins, sessions, log)
	announcementH := handler.NewAnnouncementHandler(announcements, notifier, log)
	notificationH := handler.NewNotificationHandler(notifications, notifier, log)
	complaintH := handler.NewComplaintHandler(complaints, users, notifier, hub, log)
	logbookH := handler.NewLogBookHandler(logbook, users, log)
	paymentH := handler.NewPaymentHandler(payments, log)
	contactH := handler.NewContactHandler(contacts, hub, log)
	dashboardH := handler.NewDashboardHandler(users, log)
	wsH := handler.NewWSHandler(hub, sessions, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	var cacheHot echo.MiddlewareFunc
	if rdb != nil {
		cacheHot = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterShared(e, authH, wsH)
	router.RegisterUser(e, router.UserHandlers{
		Auth:          authH,
		Announcements: announcementH,
		Notifications: notificationH,
		Complaints:    complaintH,
		LogBook:       logbookH,
		Payments:      paymentH,
		Contacts:      contactH,
	}, sessions, limit, cacheHot)
	router.RegisterAdmin(e, router.AdminHandlers{
		Auth:          adminAuthH,
		Announcements: announcementH,
		Notifications: notificationH,
		Complaints:    complaintH,
		LogBook:       logbookH,
		Payments:      paymentH,
		Contacts:      contactH,
		Dashboard:     dashboardH,
	}, sessions, limit, cacheHot)

	addr := ":" + cfg.Port
	log.Infow("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}

// seedAdmin creates the first admin account when the table is empty, so a
// fresh deployment can log in without touching the database by hand.
func seedAdmin(log *zap.SugaredLogger, admins *repository.AdminRepo, cfg config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := admins.Count(ctx)
	if err != nil {
		log.Fatalw("admin count failed", "error", err)
	}
	if n > 0 {
		return
	}
	email := os.Getenv("SEED_ADMIN_EMAIL")
	pass := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || pass == "" {
		log.Infow("no admins and no seed credentials, skipping seed")
		return
	}
	name := os.Getenv("SEED_ADMIN_NAME")
	if name == "" {
		name = "Hostel Admin"
	}
	id, err := admins.Create(ctx, name, email, pass, os.Getenv("SEED_ADMIN_PHONE"), cfg.BcryptCost)
	if err != nil {
		log.Fatalw("admin seed failed", "error", err)
	}
	log.Infow("seeded admin account", "admin_id", id, "email", email)
}
