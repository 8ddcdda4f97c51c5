package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"stock_dashboard/internal/feature/analytics/domain/entity"
	quotesentity "stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/shared/quant"
)

const (
	// analysisInterval は全ての分析系列の基礎となる足種です。
	analysisInterval = "1d"
	// defaultLookback は開始日が省略された場合の遡及期間です。
	defaultLookback = 365 * 24 * time.Hour

	dateLayout = "2006-01-02"
)

// QuoteRepository は分析対象の時系列株価データを取得するリポジトリのインターフェイスです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type QuoteRepository interface {
	GetTimeSeriesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]quotesentity.Bar, error)
}

// AnalyticsUsecase は取得済みの価格系列に純粋な統計変換を適用して返します。
type AnalyticsUsecase struct {
	quoteRepo QuoteRepository
}

// NewAnalyticsUsecase はAnalyticsUsecaseのインスタンスを生成します。
func NewAnalyticsUsecase(quoteRepo QuoteRepository) *AnalyticsUsecase {
	return &AnalyticsUsecase{quoteRepo: quoteRepo}
}

// GetReturns は指定期間の日次リターンと累積リターンを日付と揃えて返します。
func (au *AnalyticsUsecase) GetReturns(ctx context.Context, symbol string, start, end time.Time) (*entity.ReturnSeries, error) {
	start, end, err := normalizeRange(start, end)
	if err != nil {
		return nil, err
	}

	bars, err := au.quoteRepo.GetTimeSeriesRange(ctx, symbol, analysisInterval, start, end)
	if err != nil {
		return nil, err
	}

	history := quotesentity.History(bars)
	closes := history.Closes()
	return &entity.ReturnSeries{
		Symbol:     symbol,
		Dates:      history.Dates(),
		Daily:      quant.DailyReturns(closes),
		Cumulative: quant.CumulativeReturns(closes),
	}, nil
}

// GetMovingAverages は終値系列と、指定された各ウィンドウ幅の単純移動平均を返します。
// ウィンドウ幅は1以上かつ重複なしでなければなりません。
func (au *AnalyticsUsecase) GetMovingAverages(ctx context.Context, symbol string, start, end time.Time, windows []int) (*entity.MovingAverageSet, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: no window sizes given", ErrBadWindow)
	}
	seen := make(map[int]struct{}, len(windows))
	for _, w := range windows {
		if w < 1 {
			return nil, fmt.Errorf("%w: %d", ErrBadWindow, w)
		}
		if _, dup := seen[w]; dup {
			return nil, fmt.Errorf("%w: duplicate %d", ErrBadWindow, w)
		}
		seen[w] = struct{}{}
	}

	start, end, err := normalizeRange(start, end)
	if err != nil {
		return nil, err
	}

	bars, err := au.quoteRepo.GetTimeSeriesRange(ctx, symbol, analysisInterval, start, end)
	if err != nil {
		return nil, err
	}

	history := quotesentity.History(bars)
	closes := history.Closes()
	set := &entity.MovingAverageSet{
		Symbol:  symbol,
		Dates:   history.Dates(),
		Close:   closes,
		Windows: windows,
		Series:  make(map[int][]float64, len(windows)),
	}
	for _, w := range windows {
		set.Series[w] = quant.MovingAverage(closes, w)
	}
	return set, nil
}

// GetCorrelation は複数銘柄の終値系列を日付で内部結合し、ピアソン相関行列を返します。
// 取得に失敗した銘柄は警告ログを残してスキップし、残りの銘柄だけで行列を組みます。
func (au *AnalyticsUsecase) GetCorrelation(ctx context.Context, symbols []string, start, end time.Time) (*entity.CorrelationResult, error) {
	universe := dedupe(symbols)
	if len(universe) == 0 {
		return nil, ErrNoSymbols
	}

	start, end, err := normalizeRange(start, end)
	if err != nil {
		return nil, err
	}

	used := make([]string, 0, len(universe))
	closesByDate := make([]map[string]float64, 0, len(universe))
	for _, symbol := range universe {
		bars, err := au.quoteRepo.GetTimeSeriesRange(ctx, symbol, analysisInterval, start, end)
		if err != nil {
			slog.Warn("correlation: skipping symbol", "symbol", symbol, "error", err)
			continue
		}
		byDate := make(map[string]float64, len(bars))
		for _, bar := range bars {
			byDate[bar.Time.UTC().Format(dateLayout)] = bar.Close
		}
		used = append(used, symbol)
		closesByDate = append(closesByDate, byDate)
	}
	if len(used) == 0 {
		return &entity.CorrelationResult{Symbols: []string{}, Matrix: [][]float64{}}, nil
	}

	// 全銘柄に存在する日付だけを残し、同じ並びで系列を切り出す
	dates := commonDates(closesByDate)
	series := make([][]float64, len(used))
	for i, byDate := range closesByDate {
		row := make([]float64, len(dates))
		for j, d := range dates {
			row[j] = byDate[d]
		}
		series[i] = row
	}

	return &entity.CorrelationResult{
		Symbols: used,
		Matrix:  quant.CorrelationMatrix(series),
	}, nil
}

// normalizeRange は省略された境界に既定値を適用します。終了日の既定は現在時刻、
// 開始日の既定は終了日から1年前です。
func normalizeRange(start, end time.Time) (time.Time, time.Time, error) {
	if end.IsZero() {
		end = time.Now().UTC()
	}
	if start.IsZero() {
		start = end.Add(-defaultLookback)
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s >= %s",
			ErrBadRange, start.Format(dateLayout), end.Format(dateLayout))
	}
	return start, end, nil
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

// commonDates は全系列に共通して存在する日付を昇順で返します。
func commonDates(series []map[string]float64) []string {
	if len(series) == 0 {
		return nil
	}
	common := make([]string, 0, len(series[0]))
	for date := range series[0] {
		inAll := true
		for _, byDate := range series[1:] {
			if _, ok := byDate[date]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			common = append(common, date)
		}
	}
	sort.Strings(common)
	return common
}
