// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// serviceName は死活監視のレスポンスに含めるサービス識別子です。
const serviceName = "stock_dashboard"

// Health は死活監視用の /healthz エンドポイントを処理します。
// 監視系がレスポンスをキャッシュしないよう Cache-Control を付与します。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	}
}
