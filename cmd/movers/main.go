package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/config"
	moversusecase "stock_dashboard/internal/feature/movers/usecase"
	symbollistadapters "stock_dashboard/internal/feature/symbollist/adapters"
	"stock_dashboard/internal/platform/redis"
	"stock_dashboard/internal/shared/export"
)

const configPath = "configs/config.yaml"

func main() {
	out := flag.String("out", "", "write the report CSV to this file (default: stdout)")
	k := flag.Int("k", 0, "number of gainers and losers to keep (default: movers.top_k)")
	fresh := flag.Bool("fresh", false, "invalidate cached quotes before scanning")
	flag.Parse()

	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("failed to load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config:", err)
	}
	if *k < 1 {
		*k = cfg.Movers.TopK
	}

	rdb, err := redis.NewRedisClient(cfg.RedisAddr(), cfg.Redis.Password)
	if err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	market := di.NewMarket(cfg)
	quoteRepo := di.NewQuoteRepository(rdb, cfg, market)
	symbolRepo, err := symbollistadapters.NewSymbolRepository(cfg.Universe.File)
	if err != nil {
		log.Fatal("failed to load symbol universe:", err)
	}

	uc := moversusecase.NewRankUsecase(quoteRepo, moversusecase.Options{
		MaxConcurrency: cfg.Movers.MaxConcurrency,
		FetchTimeout:   cfg.FetchTimeout(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	symbols, err := symbolRepo.ListActiveCodes(ctx)
	if err != nil {
		log.Fatal("failed to load symbols:", err)
	}

	if *fresh {
		for _, symbol := range symbols {
			if err := quoteRepo.InvalidateSymbol(ctx, symbol); err != nil {
				log.Println("[WARN] failed to invalidate cache for", symbol+":", err)
			}
		}
	}

	report, err := uc.Rank(ctx, symbols, *k)
	if err != nil {
		log.Fatal(err)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal("failed to create output file:", err)
		}
		defer f.Close()
		w = f
	}
	if err := export.WriteMoverReport(w, report); err != nil {
		log.Fatal("failed to write report:", err)
	}
	log.Println("scan ok:", report.ScanID)
}
