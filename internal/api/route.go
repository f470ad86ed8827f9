package api

import (
	"Scribe/internal/api/config"
	"Scribe/internal/api/middleware"
	"Scribe/internal/model"
	"Scribe/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, server config.ServerConfig) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(server.CORSOrigins))
	r.Use(middleware.CommonMiddleware(server.SiteURL))
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})
		apiGroup.GET("/init", group.SiteHandler.Init)
		apiGroup.GET("/tag", group.SiteHandler.Tags)
		apiGroup.GET("/calendar", group.SiteHandler.Calendar)

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.UserHandler.Register)
			authGroup.POST("/login", group.UserHandler.Login)
			authGroup.GET("/captcha", group.UserHandler.Captcha)
			authGroup.POST("/restore", group.UserHandler.Restore)
			authGroup.POST("/password", group.UserHandler.ChangePassword)

			loggedIn := authGroup.Group("")
			loggedIn.Use(middleware.AuthMiddleware())
			{
				loggedIn.POST("/logout", group.UserHandler.Logout)
				loggedIn.GET("/check", group.UserHandler.Check)
			}
		}

		profileGroup := apiGroup.Group("/profile")
		profileGroup.Use(middleware.AuthMiddleware())
		{
			profileGroup.POST("/my", group.UserHandler.UpdateProfile)
			profileGroup.POST("/photo", group.MediaHandler.UploadPhoto)
		}

		postGroup := apiGroup.Group("/post")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.PostHandler.ListPosts)
				authOptGroup.GET("/search", group.PostHandler.SearchPosts)
				authOptGroup.GET("/byDate", group.PostHandler.ListPostsByDate)
				authOptGroup.GET("/byTag", group.PostHandler.ListPostsByTag)
				authOptGroup.GET("/:post_id", group.PostHandler.GetPost)
			}

			loggedIn := postGroup.Group("")
			loggedIn.Use(middleware.AuthMiddleware())
			{
				loggedIn.POST("", group.PostHandler.CreatePost)
				loggedIn.PUT("/:post_id", group.PostHandler.UpdatePost)
				loggedIn.GET("/my", group.PostHandler.ListMyPosts)
				loggedIn.POST("/like", group.PostHandler.Like)
				loggedIn.POST("/dislike", group.PostHandler.Dislike)
			}

			moderatorGroup := postGroup.Group("/moderation")
			moderatorGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(model.RoleModerator))
			{
				moderatorGroup.GET("", group.PostHandler.ListModerationPosts)
			}
		}

		moderation := apiGroup.Group("/moderation")
		moderation.Use(middleware.AuthMiddleware(), middleware.CheckRoles(model.RoleModerator))
		{
			moderation.POST("", group.PostHandler.Moderate)
		}

		commentGroup := apiGroup.Group("/comment")
		commentGroup.Use(middleware.AuthMiddleware())
		{
			commentGroup.POST("", group.PostActionHandler.CreateComment)
		}

		statsGroup := apiGroup.Group("/statistics")
		{
			statsGroup.GET("/all", middleware.AuthOptionalMiddleware(), group.SiteHandler.AllStatistics)
			statsGroup.GET("/my", middleware.AuthMiddleware(), group.SiteHandler.MyStatistics)
		}

		settingsGroup := apiGroup.Group("/settings")
		{
			settingsGroup.GET("", group.SiteHandler.GetSettings)
			settingsGroup.PUT("", middleware.AuthMiddleware(), middleware.CheckRoles(model.RoleModerator), group.SiteHandler.UpdateSettings)
		}

		sysbox := apiGroup.Group("/sysbox")
		sysbox.Use(middleware.AuthMiddleware())
		{
			sysbox.GET("/list", group.SysBoxHandler.GetNotificationList)
			sysbox.GET("/unread", group.SysBoxHandler.GetUnreadCount)
			sysbox.POST("/read", group.SysBoxHandler.MarkRead)
			sysbox.POST("/read/all", group.SysBoxHandler.MarkAllRead)
		}

		apiGroup.POST("/image", middleware.AuthMiddleware(), group.MediaHandler.UploadImage)
	}

	return r
}
