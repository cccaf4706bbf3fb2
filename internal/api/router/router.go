package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/config"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/api/handler"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/api/middleware"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/pkg/redis"
)

// 写接口限流：单 IP 单路由每分钟 60 次
const (
	writeRateLimit  = 60
	writeRateWindow = time.Minute
	maxBodyBytes    = 1 << 20
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 分配模块
		allocations := v1.Group("/allocations")
		{
			writeLimited := middleware.RateLimit(rdb, writeRateLimit, writeRateWindow)
			allocations.POST("", writeLimited, h.Allocation.Create)
			allocations.PUT("/:id", writeLimited, h.Allocation.Update)
			allocations.DELETE("/:id", writeLimited, h.Allocation.Delete)
			allocations.GET("/history", h.Allocation.History)
		}

		// 车队参照数据模块（只读）
		employees := v1.Group("/employees")
		{
			employees.GET("", h.Fleet.ListEmployees)
			employees.GET("/:id", h.Fleet.GetEmployee)
		}
		vehicles := v1.Group("/vehicles")
		{
			vehicles.GET("", h.Fleet.ListVehicles)
			vehicles.GET("/:id", h.Fleet.GetVehicle)
		}
		drivers := v1.Group("/drivers")
		{
			drivers.GET("", h.Fleet.ListDrivers)
			drivers.GET("/:id", h.Fleet.GetDriver)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/history", h.Export.ExportHistory)
			export.GET("/calendar", h.Export.ExportCalendar)
		}
	}

	return r
}
