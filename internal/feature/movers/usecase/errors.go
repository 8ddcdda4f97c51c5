// Package usecase はトップムーバーのスキャンとランキングのビジネスロジックを実装します。
package usecase

import "errors"

// ErrInvalidK は要求されたランキング件数が1未満の場合に返されるエラーです。
var ErrInvalidK = errors.New("ranking size must be at least 1")
