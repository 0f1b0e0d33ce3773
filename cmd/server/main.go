package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"recruit-backend/internal/config"
	"recruit-backend/internal/db"
	"recruit-backend/internal/meeting"
	"recruit-backend/internal/models"
	"recruit-backend/internal/routes"
	"recruit-backend/internal/storage"
	"recruit-backend/internal/utils"
)

// bootstrapAdmin creates the initial admin account so a fresh deployment
// has a login. Existing accounts are never touched.
func bootstrapAdmin(database *gorm.DB, emailAddr string, password string) error {
	var count int64
	if err := database.Model(&models.User{}).Where("email = ?", emailAddr).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	user := models.User{
		Email:        emailAddr,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         "admin",
	}
	if err := database.Create(&user).Error; err != nil {
		return err
	}
	logrus.WithField("email", emailAddr).Info("bootstrapped admin account")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	database, err := db.Open(cfg.DbDsn)
	if err != nil {
		logrus.Fatalf("db error: %v", err)
	}

	if cfg.AdminBootstrap != "" && cfg.AdminBootstrapPw != "" {
		if err := bootstrapAdmin(database, cfg.AdminBootstrap, cfg.AdminBootstrapPw); err != nil {
			logrus.Fatalf("admin bootstrap error: %v", err)
		}
	}

	deps := routes.Deps{DB: database, Cfg: cfg}

	if cfg.UploadBucket != "" {
		presigner, err := storage.NewPresigner(context.Background(), cfg.UploadBucket,
			time.Duration(cfg.UploadPresignMins)*time.Minute)
		if err != nil {
			logrus.Fatalf("s3 error: %v", err)
		}
		deps.Presigner = presigner
	} else {
		logrus.Warn("UPLOAD_BUCKET not set, upload presigning disabled")
	}

	if cfg.AgoraAppID != "" && cfg.AgoraAppCert != "" {
		deps.Issuer = &meeting.TokenIssuer{
			AppID:   cfg.AgoraAppID,
			AppCert: cfg.AgoraAppCert,
			TTL:     time.Duration(cfg.AgoraTokenMinutes) * time.Minute,
		}
	} else {
		logrus.Warn("Agora credentials not set, meeting tokens disabled")
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	routes.Register(router, deps)

	logrus.Infof("listening on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
