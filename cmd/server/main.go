package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/app/router"
	"stock_dashboard/internal/config"
	analyticshandler "stock_dashboard/internal/feature/analytics/transport/handler"
	analyticsusecase "stock_dashboard/internal/feature/analytics/usecase"
	movershandler "stock_dashboard/internal/feature/movers/transport/handler"
	moversusecase "stock_dashboard/internal/feature/movers/usecase"
	quoteshandler "stock_dashboard/internal/feature/quotes/transport/handler"
	quotesusecase "stock_dashboard/internal/feature/quotes/usecase"
	symbollistadapters "stock_dashboard/internal/feature/symbollist/adapters"
	symbollisthandler "stock_dashboard/internal/feature/symbollist/transport/handler"
	symbollistusecase "stock_dashboard/internal/feature/symbollist/usecase"
	infraredis "stock_dashboard/internal/platform/redis"
)

const configPath = "configs/config.yaml"

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// 設定
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("failed to load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config:", err)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(cfg.RedisAddr(), cfg.Redis.Password); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	market := di.NewMarket(cfg)
	quoteRepo := di.NewQuoteRepository(rdb, cfg, market)
	symbolRepo, err := symbollistadapters.NewSymbolRepository(cfg.Universe.File)
	if err != nil {
		log.Fatal("failed to load symbol universe:", err)
	}

	// Usecase
	historyUC := quotesusecase.NewHistoryUsecase(quoteRepo)
	symbolUC := symbollistusecase.NewSymbolUsecase(symbolRepo)
	analyticsUC := analyticsusecase.NewAnalyticsUsecase(quoteRepo)
	rankUC := moversusecase.NewRankUsecase(quoteRepo, moversusecase.Options{
		MaxConcurrency: cfg.Movers.MaxConcurrency,
		FetchTimeout:   cfg.FetchTimeout(),
	})

	// Handler
	historyH := quoteshandler.NewHistoryHandler(historyUC)
	symbolH := symbollisthandler.NewSymbolHandler(symbolUC)
	analyticsH := analyticshandler.NewAnalyticsHandler(analyticsUC)
	moversH := movershandler.NewMoverHandler(rankUC, symbolUC, cfg.Movers.TopK)

	// ルータ生成
	router := router.NewRouter(historyH, symbolH, analyticsH, moversH, cfg.Server.CORSOrigins)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	if err := router.Run(addr); err != nil {
		log.Fatal(err)
	}
}
