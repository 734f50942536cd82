package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/medsync/internal/http/handlers"
	"github.com/you/medsync/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.GET("/register", ah.RegisterInfo)
	auth.POST("/register", ah.Register)
	auth.POST("/verify-otp", ah.VerifyOTP)
	auth.POST("/resend-otp", ah.ResendOTP)
	auth.POST("/login", ah.Login)
	auth.POST("/forgot-password", ah.ForgotPassword)
	auth.POST("/reset-password", ah.ResetPassword)

	v := r.Group("/").Use(jwtmw.WithJWT(), cb.Enforce())
	v.GET("/auth/me", ah.Me)

	return r
}
