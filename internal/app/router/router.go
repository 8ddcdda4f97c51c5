package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	analyticshandler "stock_dashboard/internal/feature/analytics/transport/handler"
	movershandler "stock_dashboard/internal/feature/movers/transport/handler"
	quoteshandler "stock_dashboard/internal/feature/quotes/transport/handler"
	symbollisthandler "stock_dashboard/internal/feature/symbollist/transport/handler"
	"stock_dashboard/internal/platform/http/handler"
)

// NewRouter はダッシュボードAPIの全ルートを組み立てます。
// corsOriginsが空の場合は全オリジンを許可します（開発用）。
func NewRouter(history *quoteshandler.HistoryHandler, symbol *symbollisthandler.SymbolHandler,
	analytics *analyticshandler.AnalyticsHandler, movers *movershandler.MoverHandler,
	corsOrigins []string) *gin.Engine {
	r := gin.Default()

	// ブラウザのダッシュボードから呼ばれるためCORSを許可する
	if len(corsOrigins) == 0 {
		r.Use(cors.Default())
	} else {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = corsOrigins
		r.Use(cors.New(corsCfg))
	}

	// 導通確認用
	r.GET("/healthz", handler.Health)

	// 銘柄ユニバース
	r.GET("/symbols", symbol.List)

	// チャート用の価格履歴
	r.GET("/candles/:code", history.GetHistoryHandler)

	// 派生系列（リターン・移動平均・相関）
	r.GET("/returns/:code", analytics.GetReturnsHandler)
	r.GET("/sma/:code", analytics.GetMovingAveragesHandler)
	r.POST("/correlation", analytics.GetCorrelationHandler)

	// トップムーバー
	r.GET("/movers", movers.GetMoversHandler)

	return r
}
