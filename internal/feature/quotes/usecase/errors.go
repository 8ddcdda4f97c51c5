// Package usecase は株価履歴取得のビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrBadInterval is returned when the requested interval is not one of 1d, 1wk, 1mo.
	ErrBadInterval = errors.New("unsupported interval")

	// ErrBadRange is returned when the requested start date does not precede the end date.
	ErrBadRange = errors.New("invalid date range")
)
