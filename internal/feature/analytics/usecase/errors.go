// Package usecase はリターン・移動平均・相関行列の算出ロジックを実装します。
package usecase

import "errors"

var (
	// ErrBadWindow は移動平均のウィンドウ幅が不正（1未満・重複・未指定）の場合に返されるエラーです。
	ErrBadWindow = errors.New("invalid moving average window")

	// ErrBadRange は開始日が終了日以降の場合に返されるエラーです。
	ErrBadRange = errors.New("start date must be before end date")

	// ErrNoSymbols は相関行列の対象銘柄が1つも指定されなかった場合に返されるエラーです。
	ErrNoSymbols = errors.New("at least one symbol is required")
)
