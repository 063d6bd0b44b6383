package main

import (
	"flag"
	"log/slog"
	"os"

	"daily-bread/internal/calendar"
	"daily-bread/internal/config"
	"daily-bread/internal/handler"
	"daily-bread/internal/logger"
	"daily-bread/internal/middleware"
	"daily-bread/internal/model"
	"daily-bread/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.ContentUnit{}, &model.CompletionRecord{},
		&model.Message{}, &model.UserBadge{}, &model.DeviceToken{},
	); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	var kv service.KV
	if rdb := cfg.OpenRedis(); rdb != nil {
		kv = service.NewRedisKV(rdb)
		slog.Info("prefs cache using redis", "addr", cfg.Redis.Addr)
	} else {
		kv = service.NewMemKV()
		slog.Warn("no redis configured, prefs cache is in-memory")
	}

	resolver := calendar.NewResolver()
	hub := service.NewHub()

	authSvc := service.NewAuthService(db)
	contentSvc := service.NewContentService(db)
	completionSvc := service.NewCompletionService(db, contentSvc)
	pushSvc := service.NewPushService(db, cfg.Push.GatewayURL)
	badgeSvc := service.NewBadgeService(db, completionSvc, hub, resolver)
	messageSvc := service.NewMessageService(db, hub, pushSvc)
	bibleSvc := service.NewBibleService(cfg.Bible.PrimaryURL, cfg.Bible.SecondaryURL)
	memorizeSvc := service.NewMemorizeService(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
	prefsSvc := service.NewPrefsService(kv)

	secret := []byte(cfg.Auth.JWTSecret)
	authH := handler.NewAuthHandler(authSvc, secret)
	contentH := handler.NewContentHandler(contentSvc, completionSvc, resolver)
	completionH := handler.NewCompletionHandler(completionSvc, badgeSvc, resolver)
	bibleH := handler.NewBibleHandler(bibleSvc)
	memorizeH := handler.NewMemorizeHandler(memorizeSvc)
	messageH := handler.NewMessageHandler(messageSvc, hub)
	badgeH := handler.NewBadgeHandler(badgeSvc)
	prefsH := handler.NewPrefsHandler(prefsSvc, resolver)
	deviceH := handler.NewDeviceHandler(pushSvc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.POST("/api/register", authH.Register)
	r.POST("/api/login", authH.Login)

	api := r.Group("/api", middleware.JWTAuth(secret))
	api.GET("/today", contentH.Today)
	api.GET("/content/:date", contentH.ForDate)
	api.POST("/completions", completionH.Record)
	api.GET("/progress/day/:date", completionH.DayProgress)
	api.GET("/progress/week", completionH.WeekProgress)
	api.GET("/bible/:book/:chapter", bibleH.Chapter)
	api.POST("/memorize/validate", memorizeH.Validate)
	api.POST("/messages", messageH.Send)
	api.GET("/messages/:peer", messageH.Conversation)
	api.POST("/messages/:id/read", messageH.MarkRead)
	api.GET("/events", messageH.Events)
	api.GET("/badges", badgeH.List)
	api.GET("/prefs/:name", prefsH.GetPref)
	api.PUT("/prefs/:name", prefsH.PutPref)
	api.GET("/drafts/:unit", prefsH.GetDraft)
	api.PUT("/drafts/:unit", prefsH.PutDraft)
	api.DELETE("/drafts/:unit", prefsH.DeleteDraft)
	api.POST("/devices", deviceH.Register)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
