// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"fusion_messenger_server/internal/handler"
	"fusion_messenger_server/internal/infrastructure/logger"
	"fusion_messenger_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 初始化服务器并返回 Gin 引擎实例
// handlers: 依赖注入的 Handler 聚合对象
func Init(handlers *handler.Handlers) *gin.Engine {
	// 空白引擎，不用 gin.Default() 以便完全控制中间件
	engine := gin.New()

	// zap 请求日志替代 Gin 默认日志
	engine.Use(logger.GinLogger())
	// panic 恢复，true 表示日志带堆栈
	engine.Use(logger.GinRecovery(true))

	// CORS 跨域规则
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // 生产环境应指定具体域名
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// TLS 重定向中间件（由 Nginx 终结 SSL 时保持注释）
	// engine.Use(middleware.TlsHandler(config.GetConfig().MainConfig.Host, config.GetConfig().MainConfig.Port))

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	return engine
}
