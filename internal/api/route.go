package api

import (
	"Autopost/internal/api/middleware"
	"Autopost/internal/pkg/logger"
	"Autopost/internal/pkg/response"
	"io"

	"github.com/gin-gonic/gin"
)

// RouterOptions 路由依赖的非 Handler 组件
type RouterOptions struct {
	Auth           gin.HandlerFunc
	AccessLog      io.Writer
	LogIndex       string
	AllowedOrigins []string
}

func SetupRouter(group *HandlersGroup, opts RouterOptions) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	if opts.AccessLog != nil {
		logger.SetupGin(r, opts.AccessLog, opts.LogIndex)
	} else {
		r.Use(gin.Recovery())
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			response.Success(c, "pong")
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.AuthHandler.Register)
			authGroup.POST("/login", group.AuthHandler.Login)
			authGroup.POST("/logout", opts.Auth, group.AuthHandler.Logout)
			authGroup.GET("/me", opts.Auth, group.AuthHandler.Me)
		}

		sourceGroup := apiGroup.Group("/content-sources")
		sourceGroup.Use(opts.Auth)
		{
			sourceGroup.GET("", group.ContentSourceHandler.ListSources)
			sourceGroup.POST("", group.ContentSourceHandler.CreateSource)
			sourceGroup.GET("/:id", group.ContentSourceHandler.GetSource)
			sourceGroup.PUT("/:id", group.ContentSourceHandler.UpdateSource)
			sourceGroup.DELETE("/:id", group.ContentSourceHandler.DeleteSource)
			sourceGroup.POST("/:id/crawl", group.ContentSourceHandler.CrawlSource)
		}

		contentGroup := apiGroup.Group("/discovered-content")
		contentGroup.Use(opts.Auth)
		{
			contentGroup.GET("", group.DiscoveredContentHandler.ListContent)
			contentGroup.GET("/search", group.DiscoveredContentHandler.SearchContent)
			contentGroup.GET("/:id", group.DiscoveredContentHandler.GetContent)
			contentGroup.PATCH("/:id", group.DiscoveredContentHandler.UpdateContent)
			contentGroup.DELETE("/:id", group.DiscoveredContentHandler.DeleteContent)
			contentGroup.POST("/:id/summarize", group.DiscoveredContentHandler.SummarizeContent)
		}

		accountGroup := apiGroup.Group("/social-accounts")
		accountGroup.Use(opts.Auth)
		{
			accountGroup.GET("", group.SocialAccountHandler.ListAccounts)
			accountGroup.POST("", group.SocialAccountHandler.CreateAccount)
			accountGroup.GET("/:id", group.SocialAccountHandler.GetAccount)
			accountGroup.PUT("/:id", group.SocialAccountHandler.UpdateAccount)
			accountGroup.DELETE("/:id", group.SocialAccountHandler.DeleteAccount)
		}

		postGroup := apiGroup.Group("/generated-posts")
		postGroup.Use(opts.Auth)
		{
			postGroup.GET("", group.GeneratedPostHandler.ListPosts)
			postGroup.POST("", group.GeneratedPostHandler.CreatePost)
			postGroup.POST("/generate", group.GeneratedPostHandler.GeneratePost)
			postGroup.POST("/variants", group.GeneratedPostHandler.GenerateVariants)
			postGroup.GET("/generation-logs", group.GeneratedPostHandler.GenerationLogs)
			postGroup.GET("/:id", group.GeneratedPostHandler.GetPost)
			postGroup.PUT("/:id", group.GeneratedPostHandler.UpdatePost)
			postGroup.DELETE("/:id", group.GeneratedPostHandler.DeletePost)
			postGroup.POST("/:id/approve", group.GeneratedPostHandler.ApprovePost)
			postGroup.POST("/:id/reject", group.GeneratedPostHandler.RejectPost)
			postGroup.POST("/:id/publish", group.GeneratedPostHandler.PublishPost)
			postGroup.POST("/:id/retry", group.GeneratedPostHandler.RetryPost)
		}

		analyticsGroup := apiGroup.Group("/analytics")
		analyticsGroup.Use(opts.Auth)
		{
			analyticsGroup.GET("/overview", group.AnalyticsHandler.Overview)
			analyticsGroup.GET("/posts", group.AnalyticsHandler.PostStats)
			analyticsGroup.GET("/content-sources", group.AnalyticsHandler.SourceStats)
		}
	}

	return r
}
