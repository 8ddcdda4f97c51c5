// Package handler はquotesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/feature/quotes/domain"
	"stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/quotes/transport/http/dto"
	"stock_dashboard/internal/feature/quotes/usecase"
	"stock_dashboard/internal/shared/export"
)

const dateLayout = "2006-01-02"

// HistoryUsecase は価格履歴操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type HistoryUsecase interface {
	GetHistory(ctx context.Context, symbol, interval string, outputsize int) (entity.History, error)
	GetHistoryRange(ctx context.Context, symbol, interval string, start, end time.Time) (entity.History, error)
}

// HistoryHandler は価格履歴のHTTPリクエストを処理します。
type HistoryHandler struct {
	uc HistoryUsecase
}

// NewHistoryHandler は指定されたusecaseでHistoryHandlerの新しいインスタンスを生成します。
func NewHistoryHandler(uc HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// GetHistoryHandler は銘柄コードと期間を受け取り、バーの並びをJSONまたはCSVで返します。
// startかendが指定された場合は日付範囲で、どちらもない場合は直近outputsize本で取得します。
//
// エンドポイント例:
// GET /candles/:code?interval=1d&outputsize=200
// GET /candles/:code?start=2025-01-01&end=2025-06-30&format=csv
func (h *HistoryHandler) GetHistoryHandler(c *gin.Context) {
	code := c.Param("code")
	// 未指定の場合はデフォルト値を使用
	interval := c.DefaultQuery("interval", usecase.DefaultInterval)
	format := c.DefaultQuery("format", "json")

	startStr := c.Query("start")
	endStr := c.Query("end")

	var history entity.History
	var err error
	if startStr != "" || endStr != "" {
		var start, end time.Time
		if start, err = parseDate(startStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be formatted as YYYY-MM-DD"})
			return
		}
		if end, err = parseDate(endStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be formatted as YYYY-MM-DD"})
			return
		}
		history, err = h.uc.GetHistoryRange(c.Request.Context(), code, interval, start, end)
	} else {
		outputsizeStr := c.DefaultQuery("outputsize", strconv.Itoa(usecase.DefaultOutputSize))
		// 文字列を整数に変換（不正な値は0になりusecase側でデフォルトが適用される）
		outputsize, _ := strconv.Atoi(outputsizeStr)
		history, err = h.uc.GetHistory(c.Request.Context(), code, interval, outputsize)
	}
	if err != nil {
		respondHistoryError(c, err)
		return
	}

	if format == "csv" {
		var buf bytes.Buffer
		if err := export.WriteHistory(&buf, history); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+export.HistoryFilename(code))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
		return
	}

	// データをフォーマット
	out := make([]dto.BarResponse, 0, len(history))
	for _, x := range history {
		out = append(out, dto.BarResponse{
			Time:   x.Time.UTC().Format(dateLayout),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}

	c.JSON(http.StatusOK, out)
}

// respondHistoryError はドメインエラーをHTTPステータスに対応付けます。
// 入力不正は400、データなしは404、それ以外は上流障害として502を返します。
func respondHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrBadSymbol),
		errors.Is(err, usecase.ErrBadInterval),
		errors.Is(err, usecase.ErrBadRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

// parseDate は空文字列をゼロ値として扱う日付パーサーです。
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}
