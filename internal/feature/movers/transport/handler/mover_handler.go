// Package handler はmoversフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/feature/movers/domain/entity"
	"stock_dashboard/internal/feature/movers/transport/http/dto"
	"stock_dashboard/internal/feature/movers/usecase"
	"stock_dashboard/internal/shared/export"
)

// MoverRanker はユニバースのスキャンを実行するユースケースのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type MoverRanker interface {
	Rank(ctx context.Context, symbols []string, k int) (*entity.MoverReport, error)
}

// UniverseProvider はスキャン対象の銘柄コード一覧を提供します。
type UniverseProvider interface {
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// MoverHandler はトップムーバーのHTTPリクエストを処理します。
type MoverHandler struct {
	ranker   MoverRanker
	universe UniverseProvider
	defaultK int
}

// NewMoverHandler は指定されたusecaseとユニバースでMoverHandlerの新しいインスタンスを生成します。
func NewMoverHandler(ranker MoverRanker, universe UniverseProvider, defaultK int) *MoverHandler {
	if defaultK < 1 {
		defaultK = 5
	}
	return &MoverHandler{ranker: ranker, universe: universe, defaultK: defaultK}
}

// GetMoversHandler はユニバース全体をスキャンし、上位k件の値上がり・値下がり銘柄を返します。
//
// エンドポイント例:
// GET /movers?k=5
// GET /movers?format=csv
func (h *MoverHandler) GetMoversHandler(c *gin.Context) {
	// 文字列を整数に変換（不正な値は0になりusecase側で拒否される）
	k, _ := strconv.Atoi(c.DefaultQuery("k", strconv.Itoa(h.defaultK)))
	format := c.DefaultQuery("format", "json")

	codes, err := h.universe.ListActiveCodes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	report, err := h.ranker.Rank(c.Request.Context(), codes, k)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidK) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if format == "csv" {
		var buf bytes.Buffer
		if err := export.WriteMoverReport(&buf, report); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+export.MoversFilename(report.ScanID))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, toReportResponse(report))
}

// toReportResponse はドメインのレポートをレスポンスDTOへ変換します。
func toReportResponse(report *entity.MoverReport) dto.MoverReportResponse {
	return dto.MoverReportResponse{
		ScanID:      report.ScanID,
		GeneratedAt: report.GeneratedAt.UTC().Format(time.RFC3339),
		Gainers:     toRecordResponses(report.Gainers),
		Losers:      toRecordResponses(report.Losers),
	}
}

func toRecordResponses(records []entity.MoverRecord) []dto.MoverRecordResponse {
	out := make([]dto.MoverRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, dto.MoverRecordResponse{
			Symbol:        rec.Symbol,
			PreviousClose: rec.PreviousClose,
			LastClose:     rec.LastClose,
			PercentChange: rec.PercentChange,
		})
	}
	return out
}
