package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/home-services-api/internal/cache"
	"github.com/BruksfildServices01/home-services-api/internal/config"
	dbpkg "github.com/BruksfildServices01/home-services-api/internal/db"
	"github.com/BruksfildServices01/home-services-api/internal/logger"
	"github.com/BruksfildServices01/home-services-api/internal/routes"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Sync()

	db := dbpkg.NewDB(cfg)
	rdb := cache.NewRedis(cfg, zlog)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg, zlog)

	zlog.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
