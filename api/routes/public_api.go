package routes

import (
	"socialnet/api/handlers"
	"socialnet/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func PublicApi(router *gin.Engine) *gin.RouterGroup {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/api/v1/")
	{
		public.POST("auth/register", handlers.Register)
		public.POST("auth/login", handlers.Login)
	}

	authorized := router.Group("/api/v1/")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.POST("auth/logout", handlers.Logout)
		authorized.GET("user/search", handlers.UserSearch)
		authorized.GET("user/get/:id", handlers.UserGet)

		// Друзья
		authorized.GET("friends/list", handlers.GetFriends)
		authorized.DELETE("friends/:id", handlers.Unfriend)
		authorized.GET("friends/mutual/:id", handlers.GetMutualFriends)
		authorized.GET("friends/suggestions", handlers.GetSuggestions)

		// Заявки в друзья
		authorized.POST("friend-requests", handlers.CreateFriendRequest)
		authorized.GET("friend-requests", handlers.ListFriendRequests)
		authorized.PATCH("friend-requests/:id", handlers.UpdateFriendRequest)
		authorized.DELETE("friend-requests/:id", handlers.DeleteFriendRequest)

		// Подписки
		authorized.POST("follows/:id", handlers.FollowUser)
		authorized.DELETE("follows/:id", handlers.UnfollowUser)
		authorized.GET("users/:id/followers", handlers.GetFollowers)
		authorized.GET("users/:id/following", handlers.GetFollowing)

		// Фан-аут событий по подписчикам
		authorized.POST("events/notify", handlers.NotifyFollowersHandler)
		authorized.GET("events/queue-stats", handlers.QueueStats)

		// Уведомления
		authorized.GET("notifications", handlers.ListNotifications)
		authorized.GET("notifications/unread-count", handlers.GetUnreadCount)
		authorized.POST("notifications/:id/read", handlers.MarkNotificationRead)

		authorized.GET("ws/notifications", handlers.WSNotificationsHandler)
	}

	return authorized
}
