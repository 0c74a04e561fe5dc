package controller

import (
	"context"
	"errors"
	"net/http"
	"os"

	"b2bconnect-backend/dal"
	"b2bconnect-backend/middelware"
	"b2bconnect-backend/models"
	"b2bconnect-backend/repository"
	"b2bconnect-backend/services"
	"b2bconnect-backend/utils/logger"
	"b2bconnect-backend/utils/swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Controller struct {
	Auth         *AuthController
	Business     *BusinessController
	Post         *PostController
	Sector       *SectorController
	Conversation *ConversationController

	jwtManager *middelware.JWTManager
	config     *models.Config
	logger     logger.Logger
}

func NewController(ctx context.Context, cfg *models.Config, log logger.Logger) *Controller {
	dbclient, err := dal.NewDynamoDBClient(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize DynamoDB client: %v", err)
	}

	blobStore, err := dal.NewS3BlobStore(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	repos := repository.NewRepository(dbclient, cfg, log)
	jwtManager := middelware.NewJWTManager(cfg, log, repos.User)
	svc := services.NewService(repos, blobStore, log)

	return &Controller{
		Auth:         NewAuthController(ctx, svc.GetAuthService(), jwtManager, cfg, log),
		Business:     NewBusinessController(ctx, svc.GetBusinessService(), log),
		Post:         NewPostController(ctx, svc.GetPostService(), log),
		Sector:       NewSectorController(ctx, svc.GetSectorService(), log),
		Conversation: NewConversationController(ctx, svc.GetConversationService(), log),
		jwtManager:   jwtManager,
		config:       cfg,
		logger:       log,
	}
}

// RegisterRoutes wires middleware and the route table, then serves
func (c *Controller) RegisterRoutes(ctx context.Context, config *models.Config, r *gin.Engine, basePath string) error {
	logging := middelware.NewLoggingMiddleware(c.logger)
	cors := middelware.NewCORSMiddleware(config)
	metrics := middelware.NewMetricsMiddleware(prometheus.DefaultRegisterer)
	rateLimit := middelware.NewRateLimitMiddleware(config, c.logger)

	r.Use(logging.Recovery())
	r.Use(logging.StructuredLogger())
	r.Use(cors.CORS())
	r.Use(metrics.Instrument())

	r.GET("/metrics", metrics.Handler())

	swaggerConfig := swagger.SwaggerConfig{
		Title:         "B2BConnect API",
		SwaggerDocURL: "/swagger/doc.json",
		AuthURL:       basePath + "/auth",
	}
	r.GET("/swagger", swagger.Handler(swaggerConfig))
	r.GET("/swagger/index.html", swagger.Handler(swaggerConfig))
	r.GET("/swagger/doc.json", swaggerDocHandler(config, basePath, "./docs/swagger.json"))

	v1 := r.Group(basePath)

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": config.AppVersion,
			"service": config.AppName,
		})
	})

	auth := c.jwtManager.AuthMiddleware()
	optional := c.jwtManager.OptionalAuth()

	// Account lifecycle; throttled to slow down credential stuffing
	v1.POST("/auth", rateLimit.Limit(), c.Auth.Register)
	v1.PUT("/auth", rateLimit.Limit(), c.Auth.Login)
	v1.PATCH("/auth", rateLimit.Limit(), c.Auth.ResetPassword)
	v1.POST("/auth/logout", auth, c.Auth.Logout)
	v1.POST("/auth/validate", c.Auth.ValidateToken)

	// Company directory
	v1.GET("/companies", c.Business.List)
	v1.POST("/companies", auth, c.Business.Create)
	v1.GET("/companies/:id", optional, c.Business.Get)
	v1.PATCH("/companies/:id", auth, c.Business.SaveSection)
	v1.POST("/companies/:id/media", auth, c.Business.UploadMedia)

	// Posts
	v1.GET("/posts", optional, c.Post.List)
	v1.POST("/posts", auth, c.Post.Create)
	v1.GET("/posts/:id", c.Post.Get)
	v1.PATCH("/posts/:id", auth, c.Post.Update)
	v1.POST("/posts/:id/view", c.Post.RecordView)

	// Sector catalog
	v1.GET("/sectors", c.Sector.List)

	// Messaging
	v1.POST("/conversations", auth, c.Conversation.Create)
	v1.GET("/conversations", auth, c.Conversation.List)
	v1.GET("/conversations/:id/messages", auth, c.Conversation.GetMessages)
	v1.POST("/conversations/:id/messages", auth, c.Conversation.SendMessage)
	v1.POST("/conversations/:id/read", auth, c.Conversation.MarkRead)

	srv := &http.Server{
		Addr:    config.AppHost + ":" + config.AppPort,
		Handler: r,
	}
	c.logger.Infof("🚀 Starting server on %s:%s", config.AppHost, config.AppPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// swaggerDocHandler serves the generated swagger document when it has been
// checked in, falling back to a minimal document so the console still loads.
func swaggerDocHandler(config *models.Config, basePath, docPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := os.Stat(docPath); err == nil {
			c.Header("Content-Type", "application/json")
			c.File(docPath)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"swagger":  "2.0",
			"info":     gin.H{"title": config.AppName, "version": config.AppVersion},
			"basePath": basePath,
			"paths":    gin.H{},
		})
	}
}

// statusForError maps service and repository errors onto HTTP statuses
func statusForError(err error) int {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrEmailInUse),
		errors.Is(err, repository.ErrDuplicateSlug),
		errors.Is(err, repository.ErrDuplicatePostSlug):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrProfileIncomplete),
		errors.Is(err, services.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the flat error body used across the API
func fail(c *gin.Context, err error) {
	c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
}
