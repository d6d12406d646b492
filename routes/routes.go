package routes

import (
	"log"
	"time"

	"parkdesk/handlers"
	"parkdesk/services"

	"github.com/gin-gonic/gin"
)

// RequestLogger 紀錄每個請求的方法、路徑、狀態碼與耗時
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// Path 註冊所有 API 路由
func Path(api *gin.RouterGroup, desk *services.Desk) {
	api.Use(RequestLogger())

	records := api.Group("/records")
	{
		records.POST("/checkin", handlers.CheckIn(desk))
		records.POST("/:id/checkout", handlers.CheckOut(desk))
		records.GET("/active", handlers.ListActive(desk))
		records.GET("/completed", handlers.ListCompleted(desk))
		records.GET("/today", handlers.ListToday(desk))
		records.GET("/:id/ticket", handlers.GetTicket(desk))
	}

	api.GET("/summary", handlers.GetSummary(desk))
}
