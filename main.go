package main

import (
	"log"
	"os"

	"parkdesk/database"
	"parkdesk/models"
	"parkdesk/routes"
	"parkdesk/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// 載入 .env 檔案
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using default environment variables: %v", err)
	}

	// 初始化資料庫
	database.InitDB()

	// 執行資料庫遷移
	database.DB.AutoMigrate(
		&models.ParkingRecord{},
	)
	log.Println("Database migration completed")

	// 設置 Gin 模式
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)
	log.Printf("Gin mode set to %s", ginMode)

	// 前台生命週期管理者
	desk := services.NewDesk(database.DB)

	// 初始化 Gin 路由器
	r := gin.Default()

	// 創建一個 API 路由組
	api := r.Group("/api")
	{
		routes.Path(api, desk)
	}

	// 啟動定時任務
	c := cron.New()

	// 每日營收摘要（每天 23:55 執行一次，統計當天營收）
	_, err := c.AddFunc("55 23 * * *", func() {
		log.Println("Generating daily revenue summary...")
		summary, err := desk.Summary()
		if err != nil {
			log.Printf("Failed to generate daily revenue summary: %v", err)
			return
		}
		log.Printf("Daily summary: %d active, %d completed today, revenue today %d, revenue total %d",
			summary.ActiveCount, summary.CompletedToday, summary.RevenueToday, summary.RevenueTotal)
	})
	if err != nil {
		log.Fatalf("Failed to schedule daily revenue summary cron job: %v", err)
	}

	c.Start()
	log.Println("Cron jobs started")

	// 啟動伺服器
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
