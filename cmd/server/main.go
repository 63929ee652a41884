package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/robfig/cron"
	"go.mongodb.org/mongo-driver/mongo"

	config "discord-social-bot/configs"
	"discord-social-bot/internal/api/handlers"
	"discord-social-bot/internal/api/middleware"
	job "discord-social-bot/internal/jobs"
	"discord-social-bot/internal/models"
	"discord-social-bot/internal/publisher"
	"discord-social-bot/internal/repository"
	"discord-social-bot/internal/scheduler"
	"discord-social-bot/internal/service"
	"discord-social-bot/pkg/vault"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	v, err := vault.New(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("Failed to initialize credential vault: %v", err)
	}

	ctx := context.Background()
	client, err := repository.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(client)

	db := client.Database(cfg.DatabaseName)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	publishedPostRepo := repository.NewPublishedPostRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db, v)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	activityLogRepo := repository.NewActivityLogRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)
	commandLogRepo := repository.NewCommandLogRepository(db)

	router := publisher.NewRouter()
	router.Register(models.PlatformFacebook, publisher.NewFacebookPublisher(*cfg))
	router.Register(models.PlatformInstagram, publisher.NewInstagramPublisher(*cfg))
	router.Register(models.PlatformLinkedin, publisher.NewLinkedinPublisher(*cfg))
	router.Register(models.PlatformTiktok, publisher.NewTiktokPublisher(*cfg))

	userService := service.NewUserService(userRepo)
	r2Service := service.NewR2Service(*cfg)
	postService := service.NewPostService(postRepo, publishedPostRepo, socialAccountRepo, mediaAssetRepo, activityLogRepo, router, r2Service)
	accountService := service.NewAccountService(socialAccountRepo, activityLogRepo, v)
	activityService := service.NewActivityService(activityLogRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg, userService)
	app.Post("/login", auth.Login)
	app.Post("/logout", auth.Logout)

	commandLogMiddleware := middleware.NewCommandLogMiddleware(commandLogRepo)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())
	api.Use(commandLogMiddleware.CommandLogMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	post := handlers.NewPostHandler(postService)
	api.Post("/posts/create", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/history", post.ListHistory)
	api.Post("/posts/cancel", post.CancelPost)

	account := handlers.NewAccountHandler(accountService)
	api.Post("/accounts/connect", account.ConnectAccount)
	api.Get("/accounts", account.ListAccounts)
	api.Post("/accounts/remove", account.DisconnectAccount)

	activity := handlers.NewActivityHandler(activityService)
	api.Get("/activity", activity.ListActivity)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(socialAccountRepo, router, v)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.Start()

	sched := scheduler.New(
		cfg.PollInterval,
		postRepo,
		socialAccountRepo,
		publishedPostRepo,
		activityLogRepo,
		router,
		&mongoPinger{client: client},
	)
	sched.Start(ctx)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:" + cfg.Port)

	gracefulShutdown(app, client, sched, c)
}

type mongoPinger struct {
	client *mongo.Client
}

func (p *mongoPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, nil)
}

func closeDB(client *mongo.Client) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := client.Disconnect(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, client *mongo.Client, sched *scheduler.Scheduler, c *cron.Cron) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	c.Stop()
	sched.Stop()

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(client)
	log.Println("Server shutdown complete.")
}
