package main

import (
	"context"
	"log"
	"os"
	"time"

	"biosphere_api/internal/config"
	"biosphere_api/internal/model"
	"biosphere_api/internal/repository"
	"biosphere_api/internal/utils"

	"github.com/joho/godotenv"
)

// createadmin is the out-of-band admin bootstrap: it guarantees exactly one
// admin account exists for the sentinel email, demoting any other admin and
// resetting the sentinel account's password. Run it once per deployment.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	zlog, err := utils.NewLogger(utils.LoggerConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	authCfg, err := config.LoadAuthConfig()
	if err != nil {
		logger.Fatalf("Failed to load auth config: %v", err)
	}

	adminPassword := os.Getenv("ADMIN_BOOTSTRAP_PASSWORD")
	if adminPassword == "" {
		logger.Fatalf("ADMIN_BOOTSTRAP_PASSWORD not set in environment")
	}

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		logger.Fatalf("Failed to load DB config: %v", err)
	}
	dbPool, err := config.ConnectDB(dbCfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	userRepo := repository.NewUserRepository(dbPool)
	ctx := context.Background()
	adminEmail := authCfg.AdminSentinelEmail

	// Demote a stray admin holding a different email
	existingAdmin, err := userRepo.FindFirstAdmin(ctx)
	if err != nil {
		logger.Fatalf("Failed to look up existing admin: %v", err)
	}
	if existingAdmin != nil && existingAdmin.Email != adminEmail {
		if err := userRepo.SetAdmin(ctx, existingAdmin.ID, false); err != nil {
			logger.Fatalf("Failed to demote existing admin: %v", err)
		}
		logger.Infow("demoted stray admin", "user_id", existingAdmin.ID)
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		logger.Fatalf("Failed to hash admin password: %v", err)
	}

	existingUser, err := userRepo.FindByEmail(ctx, adminEmail)
	if err != nil {
		logger.Fatalf("Failed to look up sentinel account: %v", err)
	}

	if existingUser != nil {
		if err := userRepo.SetAdmin(ctx, existingUser.ID, true); err != nil {
			logger.Fatalf("Failed to promote sentinel account: %v", err)
		}
		if err := userRepo.UpdateCredentials(ctx, existingUser.ID, "Admin", "0000000000", passwordHash); err != nil {
			logger.Fatalf("Failed to reset sentinel credentials: %v", err)
		}
		logger.Infow("updated existing account as admin", "user_id", existingUser.ID)
	} else {
		admin := &model.User{
			Name:         "Admin",
			Email:        adminEmail,
			Phone:        "0000000000",
			PasswordHash: passwordHash,
			IsAdmin:      true,
			CreatedAt:    time.Now(),
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			logger.Fatalf("Failed to create admin account: %v", err)
		}
		logger.Infow("created new admin account", "user_id", admin.ID)
	}

	logger.Infof("Admin bootstrap for %s completed", adminEmail)
}
