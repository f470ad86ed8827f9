package api

import "Scribe/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler       *handler.UserHandler
	PostHandler       *handler.PostHandler
	PostActionHandler *handler.PostActionHandler
	MediaHandler      *handler.MediaHandler
	SysBoxHandler     *handler.SysBoxHandler
	SiteHandler       *handler.SiteHandler
}
