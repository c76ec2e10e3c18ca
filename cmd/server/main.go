package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TLEonTestCase37/devbits/internal/api"
	"github.com/TLEonTestCase37/devbits/internal/app/service"
	"github.com/TLEonTestCase37/devbits/internal/app/worker"
	"github.com/TLEonTestCase37/devbits/internal/common/security"
	"github.com/TLEonTestCase37/devbits/internal/domain/repository"
	"github.com/TLEonTestCase37/devbits/internal/platform/cache"
	"github.com/TLEonTestCase37/devbits/internal/platform/codeforces"
	"github.com/TLEonTestCase37/devbits/internal/platform/config"
	"github.com/TLEonTestCase37/devbits/internal/platform/database"

	"github.com/go-co-op/gocron/v2"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	database.Migrate()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Codeforces API client (responses cached in Redis)
	cfg := config.AppConfig
	cfClient := codeforces.NewClient(cfg.CFAPIBaseURL, cfg.CFRequestTimeout, cache.RDB, cfg.CFCacheTTL)

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	contestRepo := repository.NewPgContestRepository(database.DB)
	friendRepo := repository.NewPgFriendRepository(database.DB)
	teamRepo := repository.NewPgTeamRepository(database.DB)

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo)
	profileService := service.NewProfileService(userRepo, cfClient)
	compareService := service.NewCompareService(cfClient)
	problemsetService := service.NewProblemsetService(userRepo, cfClient)
	practiceService := service.NewPracticeService(userRepo, cfClient)
	contestService := service.NewContestService(contestRepo, userRepo, cfClient, database.DB)
	friendService := service.NewFriendService(friendRepo, userRepo, cfClient)
	teamService := service.NewTeamService(teamRepo, database.DB)

	// 8. Background sync jobs
	syncWorker := worker.NewSyncWorker(cfClient, contestRepo)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	catalogJob, err := scheduler.NewJob(
		gocron.DurationJob(cfg.CatalogSyncEvery),
		gocron.NewTask(syncWorker.RefreshCatalog, workerCtx),
	)
	if err != nil {
		log.Fatalf("Failed to schedule catalog sync: %v", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.ContestSyncEvery),
		gocron.NewTask(syncWorker.SyncActiveContests, workerCtx),
	)
	if err != nil {
		log.Fatalf("Failed to schedule contest sync: %v", err)
	}
	scheduler.Start()
	defer scheduler.Shutdown()
	catalogJob.RunNow() // duration jobs don't fire on startup
	fmt.Println("Sync jobs scheduled.")

	// 9. Initialize Router & HTTP Server
	router := api.NewRouter(
		authService,
		profileService,
		compareService,
		problemsetService,
		practiceService,
		contestService,
		friendService,
		teamService,
	)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and sync jobs stopped gracefully.")
}
