package controller

import (
	"learning_path_backend/internal/service"
	"learning_path_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	Service *service.ContentService
}

func NewContentController(svc *service.ContentService) *ContentController {
	return &ContentController{Service: svc}
}

// @Summary 创建资源
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateResourceRequest true "资源信息"
// @Success 201 {object} util.Response{data=model.Resource}
// @Router /api/content/resources [post]
func (c *ContentController) CreateResource(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.CreateResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Service.CreateResource(ctx.Request.Context(), actor, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, res)
}

// @Summary 我的资源
// @Tags 内容
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Resource}
// @Router /api/content/resources [get]
func (c *ContentController) ListResources(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	list, err := c.Service.ListResources(ctx.Request.Context(), actor)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 创建活动
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateActivityRequest true "活动信息"
// @Success 201 {object} util.Response{data=model.Activity}
// @Router /api/content/activities [post]
func (c *ContentController) CreateActivity(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.CreateActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.Service.CreateActivity(ctx.Request.Context(), actor, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// @Summary 我的活动
// @Tags 内容
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Activity}
// @Router /api/content/activities [get]
func (c *ContentController) ListActivities(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	list, err := c.Service.ListActivities(ctx.Request.Context(), actor)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}
