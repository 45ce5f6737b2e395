package controller

import (
	"learning_path_backend/internal/service"
	"learning_path_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentAssignmentController struct {
	Service *service.ContentAssignmentService
}

func NewContentAssignmentController(svc *service.ContentAssignmentService) *ContentAssignmentController {
	return &ContentAssignmentController{Service: svc}
}

// @Summary 主题下的内容分配
// @Tags 内容分配
// @Produce json
// @Security BearerAuth
// @Param themeId path int true "主题ID"
// @Success 200 {object} util.Response{data=[]model.ContentAssignment}
// @Router /api/learning-paths/themes/{themeId}/assignments [get]
func (c *ContentAssignmentController) List(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	themeID, ok := util.ParamID(ctx, "themeId")
	if !ok {
		return
	}

	list, err := c.Service.ListByTheme(ctx.Request.Context(), actor, themeID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 创建内容分配
// @Description 追加到主题末尾，字段校验失败时 errors 中列出全部问题
// @Tags 内容分配
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param themeId path int true "主题ID"
// @Param body body service.CreateAssignmentRequest true "分配信息"
// @Success 201 {object} util.Response{data=model.ContentAssignment}
// @Failure 400 {object} util.Response
// @Router /api/learning-paths/themes/{themeId}/assignments [post]
func (c *ContentAssignmentController) Create(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	themeID, ok := util.ParamID(ctx, "themeId")
	if !ok {
		return
	}

	var req service.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.Service.Create(ctx.Request.Context(), actor, themeID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// @Summary 更新内容分配
// @Tags 内容分配
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignmentId path int true "分配ID"
// @Param body body service.UpdateAssignmentRequest true "分配信息"
// @Success 200 {object} util.Response{data=model.ContentAssignment}
// @Router /api/learning-paths/assignments/{assignmentId} [put]
func (c *ContentAssignmentController) Update(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := util.ParamID(ctx, "assignmentId")
	if !ok {
		return
	}

	var req service.UpdateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.Service.Update(ctx.Request.Context(), actor, id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// @Summary 删除内容分配
// @Tags 内容分配
// @Produce json
// @Security BearerAuth
// @Param assignmentId path int true "分配ID"
// @Success 200 {object} util.Response
// @Router /api/learning-paths/assignments/{assignmentId} [delete]
func (c *ContentAssignmentController) Delete(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := util.ParamID(ctx, "assignmentId")
	if !ok {
		return
	}

	if err := c.Service.Delete(ctx.Request.Context(), actor, id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
