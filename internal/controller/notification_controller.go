package controller

import (
	"learning_path_backend/internal/service"
	"learning_path_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Service *service.NotificationService
	Hub     *service.NotificationHub
}

func NewNotificationController(svc *service.NotificationService, hub *service.NotificationHub) *NotificationController {
	return &NotificationController{Service: svc, Hub: hub}
}

// @Summary 我的通知
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "只看未读"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	unread, _ := strconv.ParseBool(ctx.DefaultQuery("unread", "false"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	items, total, err := c.Service.List(ctx.Request.Context(), actor.ID, unread, page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": items, "total": total})
}

// @Summary 标记通知已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param id path string true "通知ID"
// @Success 200 {object} util.Response
// @Router /api/notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := c.Service.MarkRead(ctx.Request.Context(), actor.ID, ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 全部标记已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/notifications/read-all [put]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	n, err := c.Service.MarkAllRead(ctx.Request.Context(), actor.ID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"updated": n})
}

// @Summary 通知实时推送
// @Description WebSocket 连接，token 可通过 query 参数传递
// @Tags 通知
// @Security BearerAuth
// @Param token query string false "JWT"
// @Router /api/notifications/ws [get]
func (c *NotificationController) Connect(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, actor.ID)
}
