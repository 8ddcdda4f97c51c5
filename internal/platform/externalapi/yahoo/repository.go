package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"stock_dashboard/internal/feature/quotes/domain"
	"stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/quotes/usecase"
	"stock_dashboard/internal/platform/externalapi/yahoo/dto"
	"stock_dashboard/internal/shared/ratelimiter"
	"stock_dashboard/internal/shared/validation"
)

// YahooMarket はYahoo Financeのチャートエンドポイントから株価データを取得するQuoteRepository実装です。
type YahooMarket struct {
	cfg       Config
	client    *http.Client
	limiter   ratelimiter.RateLimiterInterface
	validator *validation.BarValidator
}

// YahooMarketがQuoteRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.QuoteRepository = (*YahooMarket)(nil)

// NewYahooMarket は指定された設定とHTTPクライアントでYahooMarketの新しいインスタンスを生成します。
// limiterがnilの場合、リクエスト間の待機は行いません。
func NewYahooMarket(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *YahooMarket {
	return &YahooMarket{
		cfg:       cfg,
		client:    client,
		limiter:   limiter,
		validator: validation.NewBarValidator(),
	}
}

// GetTimeSeries は直近outputsize件のバーを取得し、entity.Barのスライスとして返します。
func (y *YahooMarket) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Bar, error) {
	q := url.Values{}
	q.Set("interval", interval)
	q.Set("range", rangeFor(interval, outputsize))

	bars, err := y.fetchChart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}

	// レンジ単位で取得されるため、直近outputsize件に切り詰める
	if len(bars) > outputsize {
		bars = bars[len(bars)-outputsize:]
	}
	return bars, nil
}

// GetTimeSeriesRange は指定された日付範囲のバーを取得します。
func (y *YahooMarket) GetTimeSeriesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]entity.Bar, error) {
	q := url.Values{}
	q.Set("interval", interval)
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))

	return y.fetchChart(ctx, symbol, q)
}

// fetchChart はチャートAPIを1回呼び出し、検証済みのバーを昇順で返します。
func (y *YahooMarket) fetchChart(ctx context.Context, symbol string, q url.Values) ([]entity.Bar, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, domain.ErrBadSymbol
	}

	// プロバイダのレート制限を超えないよう、リクエスト前に待機
	if y.limiter != nil {
		y.limiter.WaitIfNeeded()
	}

	// URLを生成
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(symbol), q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	// デフォルトのGo User-Agentはプロバイダに拒否される
	req.Header.Set("User-Agent", "Mozilla/5.0")

	// リクエストを実行
	res, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	// 未知の銘柄は404で返る
	if res.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNoData
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.ChartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s", body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, domain.ErrNoData
	}

	result := body.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]entity.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}
		// 休場日はnullで埋まるためスキップ
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}
		var vol int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			vol = *quote.Volume[i]
		}
		bars = append(bars, entity.Bar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: vol,
		})
	}

	// 不正なバー（負値・非有限値）を除外
	valid := y.validator.FilterBars(bars)
	if dropped := len(bars) - len(valid); dropped > 0 {
		slog.Warn("dropped invalid bars", "symbol", symbol, "dropped", dropped)
	}
	if len(valid) == 0 {
		return nil, domain.ErrNoData
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].Time.Before(valid[j].Time) })
	return valid, nil
}

// rangeFor は要求バー件数をカバーする最小のYahooレンジバケットを返します。
func rangeFor(interval string, n int) string {
	days := n
	switch interval {
	case "1wk":
		days = n * 7
	case "1mo":
		days = n * 30
	}
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	case days <= 1825:
		return "5y"
	default:
		return "max"
	}
}
