// api/router.go
package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-backend/api/handlers"
	"github.com/healthtrack/healthtrack-backend/api/middleware"
	"github.com/healthtrack/healthtrack-backend/config"
)

// SetupRouter configures the Gin engine with middleware and all API routes.
func SetupRouter(db *sql.DB, cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rl := middleware.NewRateLimiter()
	router.Use(middleware.RateLimitMiddleware(rl))
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())

	userHandler := handlers.NewUserHandler(db, cfg)
	recordHandler := handlers.NewRecordHandler(db, cfg)
	billboardHandler := handlers.NewBillboardHandler(db)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")
	{
		users := apiGroup.Group("/users")
		{
			users.POST("/login", userHandler.Login)
			users.POST("/register", userHandler.Register)
			users.POST("/public-register", userHandler.PublicRegister)
			users.POST("/reset-password", userHandler.ResetPassword)
			users.GET("", userHandler.ListUsers)
			users.GET("/stars", userHandler.GetUserStars)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		records := apiGroup.Group("/records")
		{
			records.POST("", recordHandler.CreateRecord)
			records.GET("", recordHandler.ListRecords)
			records.GET("/user/:userId", recordHandler.ListUserRecords)
			records.GET("/:id", recordHandler.GetRecord)
			records.PUT("/:id", recordHandler.UpdateRecord)
			records.DELETE("/:id", recordHandler.DeleteRecord)
		}

		billboard := apiGroup.Group("/billboard")
		{
			billboard.POST("/update", billboardHandler.UpdateBillboard)
		}
	}

	return router
}
