// Package dto はanalytics APIのデータ転送オブジェクトを定義します。
package dto

import "math"

// ReturnSeriesResponse は日次・累積リターンのレスポンスDTOです。
// 未定義の要素（先頭の日次リターンなど）はnullで表現します。
type ReturnSeriesResponse struct {
	Symbol     string     `json:"symbol"`
	Dates      []string   `json:"dates"`
	Daily      []*float64 `json:"daily"`
	Cumulative []*float64 `json:"cumulative"`
}

// MovingAverageResponse は終値と各ウィンドウ幅の移動平均のレスポンスDTOです。
// Seriesのキーはウィンドウ幅の10進文字列です。
type MovingAverageResponse struct {
	Symbol string                `json:"symbol"`
	Dates  []string              `json:"dates"`
	Close  []float64             `json:"close"`
	Series map[string][]*float64 `json:"series"`
}

// CorrelationRequest は相関行列のリクエストDTOです。
type CorrelationRequest struct {
	Symbols []string `json:"symbols" binding:"required,min=1"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
}

// CorrelationResponse は相関行列のレスポンスDTOです。
// 相関が定義できない要素はnullで表現します。
type CorrelationResponse struct {
	Symbols []string     `json:"symbols"`
	Matrix  [][]*float64 `json:"matrix"`
}

// NullableSeries はNaNをnullとして扱えるようfloat64の列をポインタの列へ変換します。
func NullableSeries(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		out[i] = &v
	}
	return out
}

// NullableMatrix はNullableSeriesを行列に適用します。
func NullableMatrix(values [][]float64) [][]*float64 {
	out := make([][]*float64, len(values))
	for i, row := range values {
		out[i] = NullableSeries(row)
	}
	return out
}
