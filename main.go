// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/zhanbolat3094-ctrl/HealthSignalAI/config"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/endpoint"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/middleware"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/model"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/util"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	if secret := os.Getenv("JWTSECRET"); secret != "" {
		util.SetJWTSecret(secret)
	}

	db, err := config.ConnectMySQL()
	if err != nil {
		log.Fatalf("Error connecting to MySQL: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.Session{},
		&model.Note{},
		&model.AssessmentReport{},
		&model.SecurityLog{},
	); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}
	if err := model.SeedRoles(db); err != nil {
		log.Fatalf("Error seeding roles: %v", err)
	}

	util.SetSecurityLoggerDB(db)
	util.InitUserEmailCacheFromEnv()

	// Redis is optional. Sessions fall back to the database when it is down.
	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable, session lookups will use the database: %v", err)
	}

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.APITokenMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	loginLimiter := middleware.RateLimiter(middleware.RateLimitConfig{Limit: 10, Window: time.Minute})
	router.POST("/login", loginLimiter, endpoint.Login)
	router.POST("/signup", loginLimiter, endpoint.Signup)
	router.GET("/token/validate", endpoint.ValidateToken)

	auth := router.Group("/")
	auth.Use(middleware.ValidateLoginToken())
	{
		auth.DELETE("/logout", endpoint.Logout)
		auth.POST("/verify-password", endpoint.VerifyPassword)
		auth.GET("/profile", endpoint.GetProfile)
		auth.PATCH("/user", endpoint.UpdateUser)

		auth.GET("/note", endpoint.ListNotes)
		auth.POST("/note", endpoint.CreateNote)
		auth.GET("/note/:id", endpoint.GetNoteInfo)
		auth.PATCH("/note/:id", endpoint.UpdateNote)
		auth.DELETE("/note/:id", endpoint.DeleteNote)

		auth.GET("/assessment/questions", endpoint.ListAssessmentQuestions)
		auth.POST("/assessment", endpoint.SubmitAssessment)

		auth.GET("/report", endpoint.ListReports)
		auth.GET("/report/:id", endpoint.GetReport)
		auth.GET("/report/:id/export", endpoint.ExportReport)
	}

	admin := router.Group("/user")
	admin.Use(middleware.ValidateLoginToken(), middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("", endpoint.ListUsers)
		admin.GET("/:id", endpoint.GetUserInfo)
		admin.PATCH("/:id", endpoint.AdminUpdateUser)
		admin.DELETE("/:id", endpoint.DeleteUser)
	}

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
