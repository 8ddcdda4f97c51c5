package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"stock_dashboard/internal/feature/movers/usecase"
	quotesentity "stock_dashboard/internal/feature/quotes/domain/entity"
)

// ErrProvider はモックが返すテスト用のエラーです。
var ErrProvider = errors.New("provider unavailable")

// mockMarketRepository はMarketRepositoryのテスト用モックです。
// 複数のgoroutineから同時に呼ばれるため、記録はロックで保護します。
type mockMarketRepository struct {
	GetTimeSeriesFunc func(ctx context.Context, symbol string) ([]quotesentity.Bar, error)
	delay             time.Duration

	mu            sync.Mutex
	calls         []string
	gotInterval   string
	gotOutputsize int
	inFlight      int
	maxInFlight   int
}

func (m *mockMarketRepository) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]quotesentity.Bar, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.gotInterval = interval
	m.gotOutputsize = outputsize
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	m.inFlight--
	m.mu.Unlock()

	return m.GetTimeSeriesFunc(ctx, symbol)
}

func (m *mockMarketRepository) callCount(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.calls {
		if s == symbol {
			n++
		}
	}
	return n
}

// dailyBars は終値の列から日足バーを組み立てるテスト用ヘルパーです。
func dailyBars(closes ...float64) []quotesentity.Bar {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]quotesentity.Bar, len(closes))
	for i, c := range closes {
		bars[i] = quotesentity.Bar{
			Time:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestRank_MixedGainersAndLosers(t *testing.T) {
	t.Parallel()

	mockRepo := &mockMarketRepository{
		GetTimeSeriesFunc: func(_ context.Context, symbol string) ([]quotesentity.Bar, error) {
			switch symbol {
			case "AAA":
				return dailyBars(100, 90), nil
			case "BBB":
				return dailyBars(100, 110), nil
			case "CCC":
				return nil, ErrProvider
			}
			t.Errorf("unexpected symbol %q", symbol)
			return nil, ErrProvider
		},
	}
	ru := usecase.NewRankUsecase(mockRepo, usecase.Options{})

	report, err := ru.Rank(context.Background(), []string{"AAA", "BBB", "CCC"}, 2)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if len(report.Gainers) != 1 || len(report.Losers) != 1 {
		t.Fatalf("got %d gainers and %d losers, want 1 and 1", len(report.Gainers), len(report.Losers))
	}
	gainer := report.Gainers[0]
	if gainer.Symbol != "BBB" || gainer.PercentChange != 10.0 {
		t.Errorf("gainer = %+v, want BBB +10.00", gainer)
	}
	if gainer.PreviousClose != 100.0 || gainer.LastClose != 110.0 {
		t.Errorf("gainer closes = %v -> %v, want 100 -> 110", gainer.PreviousClose, gainer.LastClose)
	}
	loser := report.Losers[0]
	if loser.Symbol != "AAA" || loser.PercentChange != -10.0 {
		t.Errorf("loser = %+v, want AAA -10.00", loser)
	}

	if !strings.HasPrefix(report.ScanID, "scan_") || len(report.ScanID) != 28 {
		t.Errorf("ScanID = %q, want scan_<timestamp>_<8 hex chars>", report.ScanID)
	}
	if time.Since(report.GeneratedAt) > time.Minute {
		t.Errorf("GeneratedAt = %v, want recent", report.GeneratedAt)
	}

	mockRepo.mu.Lock()
	defer mockRepo.mu.Unlock()
	if mockRepo.gotInterval != "1d" || mockRepo.gotOutputsize != 2 {
		t.Errorf("fetched interval=%q outputsize=%d, want 1d and 2", mockRepo.gotInterval, mockRepo.gotOutputsize)
	}
}

func TestRank_InvalidK(t *testing.T) {
	t.Parallel()

	mockRepo := &mockMarketRepository{
		GetTimeSeriesFunc: func(_ context.Context, symbol string) ([]quotesentity.Bar, error) {
			t.Errorf("repository should not be called, got symbol %q", symbol)
			return nil, ErrProvider
		},
	}
	ru := usecase.NewRankUsecase(mockRepo, usecase.Options{})

	for _, k := range []int{0, -3} {
		if _, err := ru.Rank(context.Background(), []string{"AAA"}, k); !errors.Is(err, usecase.ErrInvalidK) {
			t.Errorf("Rank(k=%d) error = %v, want ErrInvalidK", k, err)
		}
	}
}

func TestRank_EmptyUniverse(t *testing.T) {
	t.Parallel()

	mockRepo := &mockMarketRepository{
		GetTimeSeriesFunc: func(_ context.Context, symbol string) ([]quotesentity.Bar, error) {
			t.Errorf("repository should not be called, got symbol %q", symbol)
			return nil, ErrProvider
		},
	}
	ru := usecase.NewRankUsecase(mockRepo, usecase.Options{})

	for _, symbols := range [][]string{nil, {}, {"", "   "}} {
		report, err := ru.Rank(context.Background(), symbols, 5)
		if err != nil {
			t.Fatalf("Rank(%v) error = %v", symbols, err)
		}
		if report.Gainers == nil || report.Losers == nil {
			t.Fatalf("Rank(%v) returned nil slices, want empty slices", symbols)
		}
		if len(report.Gainers) != 0 || len(report.Losers) != 0 {
			t.Errorf("Rank(%v) = %d gainers %d losers, want 0 and 0", symbols, len(report.Gainers), len(report.Losers))
		}
	}
}

func TestRank_SkipsDegenerateData(t *testing.T) {
	t.Parallel()

	mockRepo := &mockMarketRepository{
		GetTimeSeriesFunc: func(_ context.Context, symbol string) ([]quotesentity.Bar, error) {
			switch symbol {
			case "ZERO":
				// 前日終値が0の銘柄は変化率を定義できないため除外される
				return dailyBars(0, 50), nil
			case "SHORT":
				return dailyBars(110), nil
			case "EMPTY":
				return []quotesentity.Bar{}, nil
			}
			return nil, ErrProvider
		},
	}
	ru := usecase.NewRankUsecase(mockRepo, usecase.Options{})

	report, err := ru.Rank(context.Background(), []string{"ZERO", "SHORT", "EMPTY"}, 3)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(report.Gainers) != 0 || len(report.Losers) != 0 {
		t.Errorf("got %d gainers %d losers, want both empty", len(report.Gainers), len(report.Losers))
	}
}

func TestRank_DeduplicatesSymbols(t *testing.T) {
	t.Parallel()

	mockRepo := &mockMarketRepository{
		GetTimeSeriesFunc: func(_ context.Context, _ string) ([]quotesentity.Bar, error) {
			return dailyBars(100, 105), nil
		},
	}
	ru := usecase.NewRankUsecase(mockRepo, usecase.Options{})

	report, err := ru.Rank(context.Background(), []string{"AAA", "AAA", " AAA ", "BBB"}, 5)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if got := mockRepo.callCount("AAA"); got != 1 {
		t.Errorf("AAA fetched %d times, want 1", got)
	}
	if got := mockRepo.callCount("BBB"); got != 1 {
		t.Errorf("BBB fetched %d times, want 1", got)
	}
	if len(report.Gainers) != 2 {
		t.Errorf("got %d gainers, want 2", len(report.Gainers))
	}
}

func TestRank_OrdersAndTruncates(t *testing.T) {
	t.Parallel()

	changes := map[string]float64{
		"GA": 105, // +5%
		"GB": 110, // +10%
		"GC": 102, // +2%
		"LA": 95,  // -5%
		"LB": 99,  // -1%
		"LC": 92,  // -8%
	}
	mockRepo := &mockMarketRepository{
		GetTimeSeriesFunc: func(_ context.Context, symbol string) ([]quotesentity.Bar, error) {
			return dailyBars(100, changes[symbol]), nil
		},
	}
	ru := usecase.NewRankUsecase(mockRepo, usecase.Options{})

	report, err := ru.Rank(context.Background(), []string{"GA", "GB", "GC", "LA", "LB", "LC"}, 2)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	wantGainers := []string{"GB", "GA"}
	wantLosers := []string{"LC", "LA"}
	for i, want := range wantGainers {
		if report.Gainers[i].Symbol != want {
			t.Errorf("Gainers[%d] = %q, want %q", i, report.Gainers[i].Symbol, want)
		}
	}
	for i, want := range wantLosers {
		if report.Losers[i].Symbol != want {
			t.Errorf("Losers[%d] = %q, want %q", i, report.Losers[i].Symbol, want)
		}
	}
	if total := len(report.Gainers) + len(report.Losers); total > 4 {
		t.Errorf("total records = %d, want at most 2k", total)
	}
}

func TestRank_KLargerThanUniverse(t *testing.T) {
	t.Parallel()

	mockRepo := &mockMarketRepository{
		GetTimeSeriesFunc: func(_ context.Context, symbol string) ([]quotesentity.Bar, error) {
			if symbol == "GA" {
				return dailyBars(100, 101), nil
			}
			return dailyBars(100, 98), nil
		},
	}
	ru := usecase.NewRankUsecase(mockRepo, usecase.Options{})

	report, err := ru.Rank(context.Background(), []string{"GA", "LA"}, 50)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(report.Gainers) != 1 || len(report.Losers) != 1 {
		t.Errorf("got %d gainers %d losers, want 1 and 1", len(report.Gainers), len(report.Losers))
	}
}

func TestRank_TieBreakBySymbol(t *testing.T) {
	t.Parallel()

	mockRepo := &mockMarketRepository{
		GetTimeSeriesFunc: func(_ context.Context, symbol string) ([]quotesentity.Bar, error) {
			if strings.HasPrefix(symbol, "G") {
				return dailyBars(100, 105), nil
			}
			return dailyBars(100, 98), nil
		},
	}
	ru := usecase.NewRankUsecase(mockRepo, usecase.Options{})

	report, err := ru.Rank(context.Background(), []string{"GZ", "GA", "GM", "LZ", "LA"}, 5)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	wantGainers := []string{"GA", "GM", "GZ"}
	if len(report.Gainers) != len(wantGainers) {
		t.Fatalf("got %d gainers, want %d", len(report.Gainers), len(wantGainers))
	}
	for i, want := range wantGainers {
		if report.Gainers[i].Symbol != want {
			t.Errorf("Gainers[%d] = %q, want %q", i, report.Gainers[i].Symbol, want)
		}
	}

	wantLosers := []string{"LA", "LZ"}
	if len(report.Losers) != len(wantLosers) {
		t.Fatalf("got %d losers, want %d", len(report.Losers), len(wantLosers))
	}
	for i, want := range wantLosers {
		if report.Losers[i].Symbol != want {
			t.Errorf("Losers[%d] = %q, want %q", i, report.Losers[i].Symbol, want)
		}
	}
}

func TestRank_ZeroChangeExcluded(t *testing.T) {
	t.Parallel()

	mockRepo := &mockMarketRepository{
		GetTimeSeriesFunc: func(_ context.Context, symbol string) ([]quotesentity.Bar, error) {
			if symbol == "FLAT" {
				return dailyBars(100, 100), nil
			}
			// +0.0001% は丸めると0.00%になるため除外される
			return dailyBars(100, 100.0001), nil
		},
	}
	ru := usecase.NewRankUsecase(mockRepo, usecase.Options{})

	report, err := ru.Rank(context.Background(), []string{"FLAT", "NEARFLAT"}, 5)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(report.Gainers) != 0 || len(report.Losers) != 0 {
		t.Errorf("got %d gainers %d losers, want both empty", len(report.Gainers), len(report.Losers))
	}
}

func TestRank_RoundsToTwoDecimals(t *testing.T) {
	t.Parallel()

	mockRepo := &mockMarketRepository{
		GetTimeSeriesFunc: func(_ context.Context, _ string) ([]quotesentity.Bar, error) {
			return dailyBars(100, 110.456), nil
		},
	}
	ru := usecase.NewRankUsecase(mockRepo, usecase.Options{})

	report, err := ru.Rank(context.Background(), []string{"AAA"}, 1)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(report.Gainers) != 1 {
		t.Fatalf("got %d gainers, want 1", len(report.Gainers))
	}
	gainer := report.Gainers[0]
	if gainer.LastClose != 110.46 {
		t.Errorf("LastClose = %v, want 110.46", gainer.LastClose)
	}
	if gainer.PercentChange != 10.46 {
		t.Errorf("PercentChange = %v, want 10.46", gainer.PercentChange)
	}
}

func TestRank_LimitsConcurrency(t *testing.T) {
	t.Parallel()

	mockRepo := &mockMarketRepository{
		delay: 20 * time.Millisecond,
		GetTimeSeriesFunc: func(_ context.Context, _ string) ([]quotesentity.Bar, error) {
			return dailyBars(100, 105), nil
		},
	}
	ru := usecase.NewRankUsecase(mockRepo, usecase.Options{MaxConcurrency: 3})

	symbols := make([]string, 20)
	for i := range symbols {
		symbols[i] = "SYM" + string(rune('A'+i))
	}

	if _, err := ru.Rank(context.Background(), symbols, 5); err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	mockRepo.mu.Lock()
	defer mockRepo.mu.Unlock()
	if len(mockRepo.calls) != len(symbols) {
		t.Errorf("got %d fetches, want %d", len(mockRepo.calls), len(symbols))
	}
	if mockRepo.maxInFlight > 3 {
		t.Errorf("max in-flight fetches = %d, want at most 3", mockRepo.maxInFlight)
	}
}

func TestRank_AppliesFetchTimeout(t *testing.T) {
	t.Parallel()

	mockRepo := &mockMarketRepository{
		GetTimeSeriesFunc: func(ctx context.Context, _ string) ([]quotesentity.Bar, error) {
			deadline, ok := ctx.Deadline()
			if !ok {
				t.Error("fetch context has no deadline")
			} else if remaining := time.Until(deadline); remaining > time.Second {
				t.Errorf("deadline too far in the future: %v", remaining)
			}
			return dailyBars(100, 105), nil
		},
	}
	ru := usecase.NewRankUsecase(mockRepo, usecase.Options{FetchTimeout: 500 * time.Millisecond})

	if _, err := ru.Rank(context.Background(), []string{"AAA"}, 1); err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
}
