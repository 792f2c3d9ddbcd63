package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"Notes/docs"
	"Notes/internal/cache"
	"Notes/internal/config"
	"Notes/internal/handlers"
	"Notes/internal/metrics"
	"Notes/internal/repo"
	"Notes/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Setup registers all routes on the given engine. rdb may be nil.
func Setup(r *gin.Engine, cfg config.Config, log *zap.Logger, db *sql.DB, rdb *redis.Client, m *metrics.Collector) {
	docs.SwaggerInfo.Version = cfg.App.Version

	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg, db))
	r.GET("/version", versionHandler(cfg))
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	var noteCache *cache.NoteCache
	if rdb != nil {
		noteCache = cache.NewNoteCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}
	noteRepo := repo.NewSQLNoteRepo(db, cfg.DB.Driver)
	noteSvc := service.NewNoteService(noteRepo, noteCache, log, cfg.App.TimeLayout)
	noteHandler := handlers.NewNoteHandler(noteSvc, log)
	registerNoteRoutes(r.Group(""), noteHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Notes API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/notes",
		})
	}
}

func healthHandler(cfg config.Config, db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "env": cfg.App.Env, "error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerNoteRoutes(api *gin.RouterGroup, h *handlers.NoteHandler) {
	api.POST("/notes", h.Create)
	api.GET("/notes", h.List)
	api.GET("/notes/:note_id", h.GetByID)
	api.PUT("/notes/:note_id", h.Update)
	api.DELETE("/notes/:note_id", h.Delete)
}
