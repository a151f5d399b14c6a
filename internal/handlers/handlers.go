package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"adboard/api/internal/config"
	"adboard/api/internal/middleware"
	"adboard/api/internal/models"
	"adboard/api/internal/repository"
	"adboard/api/internal/service"
	"adboard/api/internal/storage"
)

type HandlerSet struct {
	log            zerolog.Logger
	cfg            *config.AppConfig
	db             *pgxpool.Pool
	cache          *redis.Client
	users          *repository.UserRepository
	authService    *service.AuthService
	userService    *service.UserService
	adService      *service.AdService
	commentService *service.CommentService
	imageService   *service.ImageService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, blobs storage.BlobStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	adRepo := repository.NewAdRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	imageRepo := repository.NewImageRepository(db)

	images := service.NewImageService(adRepo, userRepo, imageRepo, blobs, log)

	return HandlerSet{
		log:            log,
		cfg:            cfg,
		db:             db,
		cache:          cache,
		users:          userRepo,
		authService:    service.NewAuthService(userRepo, sessionRepo, cfg, log),
		userService:    service.NewUserService(userRepo, images, log),
		adService:      service.NewAdService(adRepo, userRepo, images, log),
		commentService: service.NewCommentService(commentRepo, adRepo, log),
		imageService:   images,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	limited := middleware.RateLimit(h.cache, h.cfg.Security.LoginRateLimit, h.cfg.Security.LoginRateWindow, h.log)
	authn := middleware.Auth(h.cfg, h.users)

	auth := router.Group("/auth")
	auth.POST("/register", limited, h.RegisterUser)
	auth.POST("/login", limited, h.Login)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/logout", authn, h.Logout)

	users := router.Group("/users")
	users.Use(authn)
	users.GET("/me", h.Me)
	users.PATCH("/me", h.UpdateMe)
	users.POST("/set_password", h.SetPassword)
	users.PATCH("/me/image", h.UpdateAvatar)

	ads := router.Group("/ads")
	ads.GET("", h.ListAds)
	ads.GET("/:id", h.GetAd)
	ads.GET("/:id/comments", h.ListComments)
	ads.Use(authn)
	ads.POST("", h.CreateAd)
	ads.GET("/me", h.MyAds)
	ads.PATCH("/:id", h.UpdateAd)
	ads.DELETE("/:id", h.DeleteAd)
	ads.PATCH("/:id/image", h.UpdateAdImage)
	ads.POST("/:id/comments", h.CreateComment)
	ads.PATCH("/:id/comments/:commentId", h.UpdateComment)
	ads.DELETE("/:id/comments/:commentId", h.DeleteComment)

	// Image bytes are public: the frontend embeds them in <img> tags
	// without credentials.
	images := router.Group("/images")
	images.GET("/ads/:adId/image", h.AdImage)
	images.GET("/users/:userId/avatar", h.UserAvatar)

	admin := router.Group("/admin")
	admin.Use(authn, middleware.RequireRoles(models.UserRoleAdmin))
	admin.GET("/ads", h.AdminListAds)
}

// respondError maps service and repository sentinels onto HTTP
// statuses; anything unrecognized is a 500.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrAdNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrCommentNotFound),
		errors.Is(err, repository.ErrImageNotFound),
		errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, service.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_image"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email_taken"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
	case errors.Is(err, service.ErrWrongPassword):
		c.JSON(http.StatusForbidden, gin.H{"error": "wrong_password"})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

// readUpload pulls a multipart file field into a service.Upload,
// enforcing the configured size cap.
func (h HandlerSet) readUpload(file multipart.File, header *multipart.FileHeader) (service.Upload, error) {
	defer file.Close()

	maxBytes := h.cfg.Storage.MaxUploadBytes
	if maxBytes > 0 && header.Size > maxBytes {
		return service.Upload{}, errors.New("upload too large")
	}

	reader := io.Reader(file)
	if maxBytes > 0 {
		reader = io.LimitReader(file, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return service.Upload{}, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return service.Upload{}, errors.New("upload too large")
	}

	return service.Upload{
		Data:             data,
		OriginalFileName: header.Filename,
		ContentType:      header.Header.Get("Content-Type"),
	}, nil
}
