package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	moversentity "stock_dashboard/internal/feature/movers/domain/entity"
	quotesentity "stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/shared/quant"
)

const (
	// moverInterval は変化率の算出に使う足種です。
	moverInterval = "1d"
	// moverBars は必要な直近バー数です（前営業日の終値と最新の終値）。
	moverBars = 2

	defaultMaxConcurrency = 8
	defaultFetchTimeout   = 5 * time.Second
)

// MarketRepository は時系列株価データを取得するリポジトリのインターフェイスです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]quotesentity.Bar, error)
}

// Options は1回のスキャンにおける並行度とタイムアウトを制御します。
type Options struct {
	MaxConcurrency int           // 同時に取得する銘柄数の上限
	FetchTimeout   time.Duration // 1銘柄ごとの取得タイムアウト
}

// RankUsecase は銘柄ユニバースを並行スキャンし、値上がり・値下がり上位を抽出します。
type RankUsecase struct {
	market MarketRepository
	opts   Options
}

// NewRankUsecase はRankUsecaseのインスタンスを生成します。
// Optionsのゼロ値には既定値を適用します。
func NewRankUsecase(market MarketRepository, opts Options) *RankUsecase {
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = defaultMaxConcurrency
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	return &RankUsecase{market: market, opts: opts}
}

// Rank はユニバース内の各銘柄の前日比変化率を求め、上位k件の値上がり銘柄と
// 値下がり銘柄をレポートとして返します。取得に失敗した銘柄はスキャン全体を
// 落とさずスキップします。変化率がちょうど0.00%の銘柄はどちらにも含まれません。
func (ru *RankUsecase) Rank(ctx context.Context, symbols []string, k int) (*moversentity.MoverReport, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}

	report := &moversentity.MoverReport{
		ScanID:      newScanID(),
		GeneratedAt: time.Now().UTC(),
		Gainers:     []moversentity.MoverRecord{},
		Losers:      []moversentity.MoverRecord{},
	}

	universe := dedupe(symbols)
	if len(universe) == 0 {
		return report, nil
	}

	// 銘柄ごとに独立したスロットへ書き込むため、結果の収集にロックは不要です。
	records := make([]*moversentity.MoverRecord, len(universe))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, ru.opts.MaxConcurrency)

	for i, symbol := range universe {
		wg.Add(1)
		go func(idx int, sym string) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			records[idx] = ru.fetchOne(ctx, sym)
		}(i, symbol)
	}
	wg.Wait()

	ranked := make([]moversentity.MoverRecord, 0, len(universe))
	for _, rec := range records {
		if rec != nil {
			ranked = append(ranked, *rec)
		}
	}

	// 変化率の降順、同率は銘柄コードの昇順。並び順を固定して結果を決定的にします。
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].PercentChange != ranked[j].PercentChange {
			return ranked[i].PercentChange > ranked[j].PercentChange
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	var gainers, losers []moversentity.MoverRecord
	for _, rec := range ranked {
		switch {
		case rec.PercentChange > 0:
			gainers = append(gainers, rec)
		case rec.PercentChange < 0:
			losers = append(losers, rec)
		}
	}

	// 値下がり側は変化率の昇順（下落幅の大きい順）に並べ直します。
	sort.Slice(losers, func(i, j int) bool {
		if losers[i].PercentChange != losers[j].PercentChange {
			return losers[i].PercentChange < losers[j].PercentChange
		}
		return losers[i].Symbol < losers[j].Symbol
	})

	if len(gainers) > k {
		gainers = gainers[:k]
	}
	if len(losers) > k {
		losers = losers[:k]
	}
	report.Gainers = append(report.Gainers, gainers...)
	report.Losers = append(report.Losers, losers...)

	return report, nil
}

// fetchOne は1銘柄分のレコードを計算します。取得失敗・バー不足・ゼロ除算に
// なるデータはログに残してnilを返し、呼び出し側でスキップさせます。
func (ru *RankUsecase) fetchOne(ctx context.Context, symbol string) *moversentity.MoverRecord {
	fetchCtx, cancel := context.WithTimeout(ctx, ru.opts.FetchTimeout)
	defer cancel()

	bars, err := ru.market.GetTimeSeries(fetchCtx, symbol, moverInterval, moverBars)
	if err != nil {
		slog.Warn("mover scan: failed to fetch symbol", "symbol", symbol, "error", err)
		return nil
	}
	if len(bars) < moverBars {
		slog.Warn("mover scan: not enough bars", "symbol", symbol, "bars", len(bars))
		return nil
	}

	prev := bars[len(bars)-2].Close
	last := bars[len(bars)-1].Close
	if prev == 0 {
		// 前日終値が0だと変化率を定義できない
		slog.Warn("mover scan: zero previous close", "symbol", symbol)
		return nil
	}

	return &moversentity.MoverRecord{
		Symbol:        symbol,
		PreviousClose: quant.Round2(prev),
		LastClose:     quant.Round2(last),
		PercentChange: quant.PercentChange(prev, last),
	}
}

// dedupe は入力の順序を保ったまま重複と空要素を取り除きます。
func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// newScanID は scan_20250825093000_ab12cd34 形式の一意なスキャンIDを生成します。
func newScanID() string {
	timestamp := time.Now().UTC().Format("20060102150405")
	return fmt.Sprintf("scan_%s_%s", timestamp, uuid.NewString()[:8])
}
