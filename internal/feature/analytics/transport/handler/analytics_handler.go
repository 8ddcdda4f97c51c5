// Package handler はanalyticsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/feature/analytics/domain/entity"
	"stock_dashboard/internal/feature/analytics/transport/http/dto"
	"stock_dashboard/internal/feature/analytics/usecase"
	quotesdomain "stock_dashboard/internal/feature/quotes/domain"
	"stock_dashboard/internal/shared/export"
)

const dateLayout = "2006-01-02"

// AnalyticsUsecase は分析系列のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalyticsUsecase interface {
	GetReturns(ctx context.Context, symbol string, start, end time.Time) (*entity.ReturnSeries, error)
	GetMovingAverages(ctx context.Context, symbol string, start, end time.Time, windows []int) (*entity.MovingAverageSet, error)
	GetCorrelation(ctx context.Context, symbols []string, start, end time.Time) (*entity.CorrelationResult, error)
}

// AnalyticsHandler は分析系列のHTTPリクエストを処理します。
type AnalyticsHandler struct {
	uc AnalyticsUsecase
}

// NewAnalyticsHandler は指定されたusecaseでAnalyticsHandlerの新しいインスタンスを生成します。
func NewAnalyticsHandler(uc AnalyticsUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// GetReturnsHandler は日次リターンと累積リターンをJSONまたはCSVで返します。
//
// エンドポイント例:
// GET /returns/:code?start=2025-01-01&end=2025-06-30
// GET /returns/:code?format=csv
func (h *AnalyticsHandler) GetReturnsHandler(c *gin.Context) {
	code := c.Param("code")
	format := c.DefaultQuery("format", "json")

	start, end, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	series, err := h.uc.GetReturns(c.Request.Context(), code, start, end)
	if err != nil {
		respondAnalyticsError(c, err)
		return
	}

	if format == "csv" {
		var buf bytes.Buffer
		if err := export.WriteDailyReturns(&buf, series); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+export.ReturnsFilename(code))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, dto.ReturnSeriesResponse{
		Symbol:     series.Symbol,
		Dates:      series.Dates,
		Daily:      dto.NullableSeries(series.Daily),
		Cumulative: dto.NullableSeries(series.Cumulative),
	})
}

// GetMovingAveragesHandler は終値と各ウィンドウ幅の単純移動平均を返します。
//
// エンドポイント例:
// GET /sma/:code?windows=20,50
func (h *AnalyticsHandler) GetMovingAveragesHandler(c *gin.Context) {
	code := c.Param("code")

	start, end, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	windows, err := parseWindows(c.DefaultQuery("windows", "20,50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set, err := h.uc.GetMovingAverages(c.Request.Context(), code, start, end, windows)
	if err != nil {
		respondAnalyticsError(c, err)
		return
	}

	series := make(map[string][]*float64, len(set.Windows))
	for _, w := range set.Windows {
		series[strconv.Itoa(w)] = dto.NullableSeries(set.Series[w])
	}
	c.JSON(http.StatusOK, dto.MovingAverageResponse{
		Symbol: set.Symbol,
		Dates:  set.Dates,
		Close:  set.Close,
		Series: series,
	})
}

// GetCorrelationHandler は複数銘柄のピアソン相関行列を返します。
//
// エンドポイント例:
// POST /correlation {"symbols":["RELIANCE.NS","TCS.NS"],"start":"2025-01-01"}
func (h *AnalyticsHandler) GetCorrelationHandler(c *gin.Context) {
	var req dto.CorrelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be formatted as YYYY-MM-DD"})
		return
	}
	end, err := parseDate(req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be formatted as YYYY-MM-DD"})
		return
	}

	result, err := h.uc.GetCorrelation(c.Request.Context(), req.Symbols, start, end)
	if err != nil {
		respondAnalyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CorrelationResponse{
		Symbols: result.Symbols,
		Matrix:  dto.NullableMatrix(result.Matrix),
	})
}

// respondAnalyticsError はドメインエラーをHTTPステータスに対応付けます。
// 入力不正は400、データなしは404、それ以外は上流障害として502を返します。
func respondAnalyticsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrBadWindow),
		errors.Is(err, usecase.ErrBadRange),
		errors.Is(err, usecase.ErrNoSymbols),
		errors.Is(err, quotesdomain.ErrBadSymbol):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, quotesdomain.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

// parseRangeQuery はstart/endクエリパラメータを解釈します。
// 形式が不正な場合は400を書き込んでfalseを返します。
func parseRangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := parseDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be formatted as YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be formatted as YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// parseDate は空文字列をゼロ値として扱う日付パーサーです。
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

// parseWindows はカンマ区切りのウィンドウ幅を整数の列へ変換します。
func parseWindows(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	windows := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		w, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("windows must be comma-separated integers: %q", p)
		}
		windows = append(windows, w)
	}
	return windows, nil
}
