package app

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/medsync/domain"
	"github.com/you/medsync/internal/config"
	httpx "github.com/you/medsync/internal/http"
	"github.com/you/medsync/internal/http/handlers"
	"github.com/you/medsync/internal/http/middleware"
	"github.com/you/medsync/internal/infrastructure/auth"
	"github.com/you/medsync/internal/infrastructure/database"
	"github.com/you/medsync/internal/infrastructure/notifications"
	"github.com/you/medsync/internal/infrastructure/repositories"
	"github.com/you/medsync/internal/services"
)

func Run(cfg *config.Config) error {
	gin.SetMode(cfg.GinMode)

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(gdb, cfg.UserCodeColumn); err != nil {
		return err
	}
	cas, err := auth.NewCasbinService(gdb, cfg.CasbinModelPath)
	if err != nil {
		return err
	}
	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return err
	}

	// Infrastructure services
	passwordSvc := auth.NewPasswordService()
	tokenSvc := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	notificationSvc := notifications.NewSMTPService(notifications.SMTPConfig{
		Server:    cfg.MailServer,
		Port:      cfg.MailPort,
		UseTLS:    cfg.MailUseTLS,
		UseSSL:    cfg.MailUseSSL,
		Username:  cfg.MailUsername,
		Password:  cfg.MailPassword,
		FromName:  cfg.MailFromName,
		Sender:    cfg.MailSender,
		OTPExpiry: cfg.OTPExpiry,
	})

	// Repositories
	userRepo := repositories.NewUserRepository(gdb, cfg.UserCodeColumn)
	pendingStore := repositories.NewPendingRedisStore(rdb, cfg.PendingTTL)

	// Services
	policySvc := services.NewPolicyService(cas.E)
	otpSvc := services.NewOTPService(pendingStore, passwordSvc, cfg.OTPExpiry)
	codeGen := services.NewUserCodeGenerator(userRepo)
	authSvc := services.NewAuthService(userRepo, pendingStore, passwordSvc, tokenSvc, otpSvc, codeGen, notificationSvc)

	// Handlers and middleware
	authH := handlers.NewAuthHandlers(authSvc, cfg.OTPExpiry)
	jwtMW := middleware.NewAuthMW(tokenSvc)
	casbinMW := middleware.NewCasbinMW(cas.E)

	r := httpx.BuildRouter(authH, jwtMW, casbinMW)

	if len(policySvc.GetPolicies()) == 0 {
		for _, role := range domain.ValidRoles {
			if err := policySvc.AddPolicy("role_"+strings.ToLower(role), "/auth/me", "GET"); err != nil {
				return err
			}
		}
		log.Println("casbin: seeded default policies")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
