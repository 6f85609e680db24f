// file: main.go
package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/JuanSign/iecom-itb/config"
	"github.com/JuanSign/iecom-itb/controllers"
	"github.com/JuanSign/iecom-itb/database"
	"github.com/JuanSign/iecom-itb/models"
	"github.com/JuanSign/iecom-itb/routes"
	"github.com/JuanSign/iecom-itb/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Schema is managed externally; enable for local setups.
	// if err := database.MigrateTables(db); err != nil {
	// 	log.Fatalf("Failed to migrate database: %v", err)
	// }

	rdb, err := database.InitRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	minioClient, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	store := services.NewGormStore(db)
	sessions := services.NewSessionService(cfg.SessionSecret, store, cfg.IsProduction())
	storage := services.NewR2Storage(minioClient, cfg.StorageBucket, rdb)

	registries := map[models.Family]*services.Registry{
		models.FamilyIECOM: services.NewRegistry(models.FamilyIECOM, store, storage),
		models.FamilyNICE:  services.NewRegistry(models.FamilyNICE, store, storage),
	}

	authController := controllers.NewAuthController(store, sessions)
	competitionController := controllers.NewCompetitionController(registries, sessions)

	r := routes.SetupRouter(authController, competitionController, sessions)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
