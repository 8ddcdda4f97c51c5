package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient はマーケットデータプロバイダ呼び出し用のHTTPクライアントを作成します。
//
// ダッシュボードは単一のプロバイダホストへ並行リクエストを行うため、同一ホストの
// アイドル接続数をデフォルトの2から引き上げ、接続の使い捨てを防ぎます。
// timeoutは接続確立からボディ読み取りまでのリクエスト全体に適用されます。
// http.DefaultClientにはタイムアウトがないため、外部呼び出しには必ずこのクライアントを使うこと。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
