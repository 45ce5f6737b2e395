package controller

import (
	"learning_path_backend/internal/service"
	"learning_path_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Service *service.ProgressService
}

func NewProgressController(svc *service.ProgressService) *ProgressController {
	return &ProgressController{Service: svc}
}

// @Summary 记录主题进度
// @Description 学生查看或完成主题，模块和路径状态会自动汇总
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.RecordThemeRequest true "主题进度"
// @Success 200 {object} util.Response{data=model.Progress}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/progress/update-theme [post]
func (c *ProgressController) UpdateTheme(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.RecordThemeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.Service.RecordThemeProgress(ctx.Request.Context(), actor, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 获取我的学习路径进度
// @Description 尚无进度记录时返回"No Iniciado"视图
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Param learningPathId path int true "学习路径ID"
// @Success 200 {object} util.Response{data=model.Progress}
// @Router /api/progress/my/{learningPathId} [get]
func (c *ProgressController) GetMyProgress(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	pathID, ok := util.ParamID(ctx, "learningPathId")
	if !ok {
		return
	}

	progress, err := c.Service.GetMyProgress(ctx.Request.Context(), actor, pathID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 小组学习进度汇总
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Param groupId path int true "小组ID"
// @Param learningPathId path int true "学习路径ID"
// @Success 200 {object} util.Response{data=[]service.StudentProgressSummary}
// @Router /api/progress/group/{groupId}/path/{learningPathId}/docente [get]
func (c *ProgressController) GetGroupProgress(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	groupID, ok := util.ParamID(ctx, "groupId")
	if !ok {
		return
	}
	pathID, ok := util.ParamID(ctx, "learningPathId")
	if !ok {
		return
	}

	summaries, err := c.Service.GetGroupProgress(ctx.Request.Context(), actor, groupID, pathID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// @Summary 学生详细进度
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "学生ID"
// @Param learningPathId path int true "学习路径ID"
// @Success 200 {object} util.Response{data=service.StudentProgressDetail}
// @Router /api/progress/student/{studentId}/path/{learningPathId}/docente [get]
func (c *ProgressController) GetStudentProgress(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	studentID, ok := util.ParamID(ctx, "studentId")
	if !ok {
		return
	}
	pathID, ok := util.ParamID(ctx, "learningPathId")
	if !ok {
		return
	}

	detail, err := c.Service.GetStudentProgress(ctx.Request.Context(), actor, studentID, pathID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 教师设置模块状态
// @Description 对小组内所有已批准学生生效，单个学生失败会被跳过
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SetModuleStatusRequest true "模块状态"
// @Success 200 {object} util.Response{data=service.OverrideResult}
// @Router /api/progress/teacher/set-module-status [post]
func (c *ProgressController) SetModuleStatus(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.SetModuleStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.SetModuleStatus(ctx.Request.Context(), actor, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 教师设置主题状态
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SetThemeStatusRequest true "主题状态"
// @Success 200 {object} util.Response{data=service.OverrideResult}
// @Router /api/progress/teacher/set-theme-status [post]
func (c *ProgressController) SetThemeStatus(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.SetThemeStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.SetThemeStatus(ctx.Request.Context(), actor, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
