// Package dto はmovers APIのデータ転送オブジェクトを定義します。
package dto

// MoverRecordResponse は1銘柄分のレスポンスDTOです。
type MoverRecordResponse struct {
	Symbol        string  `json:"symbol"`         // 銘柄コード
	PreviousClose float64 `json:"previous_close"` // 前日終値
	LastClose     float64 `json:"last_close"`     // 最新終値
	PercentChange float64 `json:"percent_change"` // 変化率（％、小数2桁）
}

// MoverReportResponse は1回のスキャン結果のレスポンスDTOです。
type MoverReportResponse struct {
	ScanID      string                `json:"scan_id"`
	GeneratedAt string                `json:"generated_at"` // RFC 3339
	Gainers     []MoverRecordResponse `json:"gainers"`
	Losers      []MoverRecordResponse `json:"losers"`
}
