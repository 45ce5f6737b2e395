package controller

import (
	"learning_path_backend/internal/service"
	"learning_path_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct {
	Service *service.LearningPathService
}

func NewLearningPathController(svc *service.LearningPathService) *LearningPathController {
	return &LearningPathController{Service: svc}
}

// @Summary 创建学习路径
// @Tags 学习路径
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreatePathRequest true "路径信息"
// @Success 201 {object} util.Response{data=model.LearningPath}
// @Router /api/learning-paths [post]
func (c *LearningPathController) CreatePath(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.CreatePathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.Service.CreatePath(ctx.Request.Context(), actor, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, path)
}

// @Summary 小组的学习路径列表
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param id path int true "小组ID"
// @Success 200 {object} util.Response{data=[]model.LearningPath}
// @Router /api/groups/{id}/learning-paths [get]
func (c *LearningPathController) ListPaths(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	groupID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	paths, err := c.Service.ListPaths(ctx.Request.Context(), actor, groupID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, paths)
}

// @Summary 获取学习路径完整结构
// @Description 模块、主题和内容分配均按 orden 排序
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param id path int true "学习路径ID"
// @Success 200 {object} util.Response{data=model.LearningPath}
// @Router /api/learning-paths/{id} [get]
func (c *LearningPathController) GetStructure(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	pathID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	path, err := c.Service.GetStructure(ctx.Request.Context(), actor, pathID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// @Summary 更新学习路径
// @Tags 学习路径
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "学习路径ID"
// @Param body body service.UpdatePathRequest true "路径信息"
// @Success 200 {object} util.Response{data=model.LearningPath}
// @Router /api/learning-paths/{id} [put]
func (c *LearningPathController) UpdatePath(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	pathID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req service.UpdatePathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.Service.UpdatePath(ctx.Request.Context(), actor, pathID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// @Summary 删除学习路径
// @Description 同时删除模块、主题、内容分配和学生进度
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param id path int true "学习路径ID"
// @Success 200 {object} util.Response
// @Router /api/learning-paths/{id} [delete]
func (c *LearningPathController) DeletePath(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	pathID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	if err := c.Service.DeletePath(ctx.Request.Context(), actor, pathID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 创建模块
// @Tags 学习路径
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "学习路径ID"
// @Param body body service.NodeRequest true "模块信息"
// @Success 201 {object} util.Response{data=model.Module}
// @Router /api/learning-paths/{id}/modules [post]
func (c *LearningPathController) CreateModule(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	pathID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req service.NodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.Service.CreateModule(ctx.Request.Context(), actor, pathID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// @Summary 更新模块
// @Tags 学习路径
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param moduleId path int true "模块ID"
// @Param body body service.NodeRequest true "模块信息"
// @Success 200 {object} util.Response{data=model.Module}
// @Router /api/learning-paths/modules/{moduleId} [put]
func (c *LearningPathController) UpdateModule(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	moduleID, ok := util.ParamID(ctx, "moduleId")
	if !ok {
		return
	}

	var req service.NodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.Service.UpdateModule(ctx.Request.Context(), actor, moduleID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// @Summary 删除模块
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param moduleId path int true "模块ID"
// @Success 200 {object} util.Response
// @Router /api/learning-paths/modules/{moduleId} [delete]
func (c *LearningPathController) DeleteModule(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	moduleID, ok := util.ParamID(ctx, "moduleId")
	if !ok {
		return
	}

	if err := c.Service.DeleteModule(ctx.Request.Context(), actor, moduleID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 创建主题
// @Tags 学习路径
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param moduleId path int true "模块ID"
// @Param body body service.NodeRequest true "主题信息"
// @Success 201 {object} util.Response{data=model.Theme}
// @Router /api/learning-paths/modules/{moduleId}/themes [post]
func (c *LearningPathController) CreateTheme(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	moduleID, ok := util.ParamID(ctx, "moduleId")
	if !ok {
		return
	}

	var req service.NodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	t, err := c.Service.CreateTheme(ctx.Request.Context(), actor, moduleID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, t)
}

// @Summary 更新主题
// @Tags 学习路径
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param themeId path int true "主题ID"
// @Param body body service.NodeRequest true "主题信息"
// @Success 200 {object} util.Response{data=model.Theme}
// @Router /api/learning-paths/themes/{themeId} [put]
func (c *LearningPathController) UpdateTheme(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	themeID, ok := util.ParamID(ctx, "themeId")
	if !ok {
		return
	}

	var req service.NodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	t, err := c.Service.UpdateTheme(ctx.Request.Context(), actor, themeID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, t)
}

// @Summary 删除主题
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param themeId path int true "主题ID"
// @Success 200 {object} util.Response
// @Router /api/learning-paths/themes/{themeId} [delete]
func (c *LearningPathController) DeleteTheme(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	themeID, ok := util.ParamID(ctx, "themeId")
	if !ok {
		return
	}

	if err := c.Service.DeleteTheme(ctx.Request.Context(), actor, themeID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
