package handler

import (
	"bisonchat/internal/app/chat"
	"bisonchat/internal/configs"
)

type AppDeps struct {
	Manager *chat.Manager
	Config  *configs.AppConfig
}
