package controller

import (
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/service"
	"learning_path_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	Service *service.GroupService
}

func NewGroupController(svc *service.GroupService) *GroupController {
	return &GroupController{Service: svc}
}

// @Summary 创建小组
// @Tags 小组
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateGroupRequest true "小组信息"
// @Success 201 {object} util.Response{data=model.Group}
// @Router /api/groups [post]
func (c *GroupController) Create(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.Service.CreateGroup(ctx.Request.Context(), actor, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

// @Summary 我的小组
// @Description 教师返回自己创建的小组，学生返回已加入的小组
// @Tags 小组
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Group}
// @Router /api/groups [get]
func (c *GroupController) ListMine(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	groups, err := c.Service.ListMyGroups(ctx.Request.Context(), actor)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}

// @Summary 小组详情
// @Tags 小组
// @Produce json
// @Security BearerAuth
// @Param id path int true "小组ID"
// @Success 200 {object} util.Response{data=model.Group}
// @Router /api/groups/{id} [get]
func (c *GroupController) Get(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	groupID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	group, err := c.Service.GetGroup(ctx.Request.Context(), actor, groupID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// @Summary 更新小组
// @Description 可用于启用或停用小组
// @Tags 小组
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "小组ID"
// @Param body body service.UpdateGroupRequest true "小组信息"
// @Success 200 {object} util.Response{data=model.Group}
// @Router /api/groups/{id} [put]
func (c *GroupController) Update(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	groupID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req service.UpdateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.Service.UpdateGroup(ctx.Request.Context(), actor, groupID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// @Summary 申请加入小组
// @Tags 小组
// @Produce json
// @Security BearerAuth
// @Param id path int true "小组ID"
// @Success 200 {object} util.Response{data=model.GroupMember}
// @Router /api/groups/{id}/join [post]
func (c *GroupController) Join(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	groupID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	m, err := c.Service.RequestJoin(ctx.Request.Context(), actor, groupID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// @Summary 小组成员列表
// @Tags 小组
// @Produce json
// @Security BearerAuth
// @Param id path int true "小组ID"
// @Param estado query string false "成员状态 (Pendiente, Aprobado, Rechazado)"
// @Success 200 {object} util.Response{data=[]model.GroupMember}
// @Router /api/groups/{id}/members [get]
func (c *GroupController) ListMembers(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	groupID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	status := model.MembershipStatus(ctx.Query("estado"))
	members, err := c.Service.ListMembers(ctx.Request.Context(), actor, groupID, status)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, members)
}

// @Summary 审核加入申请
// @Tags 小组
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "小组ID"
// @Param studentId path int true "学生ID"
// @Param body body service.ReviewMembershipRequest true "审核结果"
// @Success 200 {object} util.Response{data=model.GroupMember}
// @Router /api/groups/{id}/members/{studentId} [put]
func (c *GroupController) ReviewMember(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	groupID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := util.ParamID(ctx, "studentId")
	if !ok {
		return
	}

	var req service.ReviewMembershipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.Service.ReviewMembership(ctx.Request.Context(), actor, groupID, studentID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, m)
}
