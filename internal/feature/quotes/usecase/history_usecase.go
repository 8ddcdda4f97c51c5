package usecase

import (
	"context"
	"time"

	"stock_dashboard/internal/feature/quotes/domain/entity"
)

const (
	// DefaultInterval は株価履歴クエリのデフォルト時間間隔です。
	DefaultInterval = "1d"
	// DefaultOutputSize はデフォルトのバー返却件数です。
	DefaultOutputSize = 200
	// MaxOutputSize はバーの最大返却件数です。
	MaxOutputSize = 5000
	// DefaultLookback は日付範囲が未指定の場合に遡る期間（1年）です。
	DefaultLookback = 365 * 24 * time.Hour
)

// supportedIntervals はプロバイダが受け付ける時間間隔の集合です。
var supportedIntervals = map[string]bool{
	"1d":  true,
	"1wk": true,
	"1mo": true,
}

// QuoteRepository は株価データの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type QuoteRepository interface {
	// GetTimeSeries は直近outputsize件のバーを取得します。
	GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Bar, error)
	// GetTimeSeriesRange は指定された日付範囲のバーを取得します。
	GetTimeSeriesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]entity.Bar, error)
}

// HistoryUsecase は株価履歴取得のユースケースを定義します。
type HistoryUsecase struct {
	quotes QuoteRepository
}

// NewHistoryUsecase はHistoryUsecaseの新しいインスタンスを生成します。
func NewHistoryUsecase(quotes QuoteRepository) *HistoryUsecase {
	return &HistoryUsecase{quotes: quotes}
}

// GetHistory は指定された銘柄と時間間隔の直近の株価履歴を取得します。
func (hu *HistoryUsecase) GetHistory(ctx context.Context, symbol, interval string, outputsize int) (entity.History, error) {
	interval, err := normalizeInterval(interval)
	if err != nil {
		return nil, err
	}
	if outputsize <= 0 || outputsize > MaxOutputSize {
		outputsize = DefaultOutputSize
	}

	bars, err := hu.quotes.GetTimeSeries(ctx, symbol, interval, outputsize)
	if err != nil {
		return nil, err
	}
	return entity.History(bars), nil
}

// GetHistoryRange は指定された日付範囲の株価履歴を取得します。
// endが未指定の場合は現在時刻、startが未指定の場合はendの1年前を使用します。
func (hu *HistoryUsecase) GetHistoryRange(ctx context.Context, symbol, interval string, start, end time.Time) (entity.History, error) {
	interval, err := normalizeInterval(interval)
	if err != nil {
		return nil, err
	}
	if end.IsZero() {
		end = time.Now().UTC()
	}
	if start.IsZero() {
		start = end.Add(-DefaultLookback)
	}
	if !start.Before(end) {
		return nil, ErrBadRange
	}

	bars, err := hu.quotes.GetTimeSeriesRange(ctx, symbol, interval, start, end)
	if err != nil {
		return nil, err
	}
	return entity.History(bars), nil
}

// normalizeInterval は未指定をデフォルトに置き換え、非対応の間隔を拒否します。
func normalizeInterval(interval string) (string, error) {
	if interval == "" {
		return DefaultInterval, nil
	}
	if !supportedIntervals[interval] {
		return "", ErrBadInterval
	}
	return interval, nil
}
