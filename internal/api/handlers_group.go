package api

import "Autopost/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AuthHandler              *handler.AuthHandler
	ContentSourceHandler     *handler.ContentSourceHandler
	DiscoveredContentHandler *handler.DiscoveredContentHandler
	SocialAccountHandler     *handler.SocialAccountHandler
	GeneratedPostHandler     *handler.GeneratedPostHandler
	AnalyticsHandler         *handler.AnalyticsHandler
}
