package controller

import (
	"errors"
	"mathpath_backend/internal/service"
	"mathpath_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	StudentService *service.StudentService
	PathService    *service.LearningPathService
}

func NewStudentController(
	studentService *service.StudentService,
	pathService *service.LearningPathService,
) *StudentController {
	return &StudentController{
		StudentService: studentService,
		PathService:    pathService,
	}
}

// Overview godoc
// @Summary 学生主页概览
// @Description 学生档案 + 已掌握概念数 + 升级所需XP
// @Tags 学生
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.StudentOverview} "成功"
// @Failure 404 {object} util.Response "学生档案不存在"
// @Router /api/students/me [get]
func (c *StudentController) Overview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.StudentService.GetOverview(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, overview)
}

// UpdateProfile godoc
// @Summary 更新学生档案
// @Description 调整年级/学校类型；年级变更后学习路径会按新年级重建
// @Tags 学生
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.UpdateStudentRequest true "档案信息"
// @Success 200 {object} util.Response{data=model.StudentProfile} "成功"
// @Failure 404 {object} util.Response "学生档案不存在"
// @Router /api/students/me [put]
func (c *StudentController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	gradeChanged := req.Grade != 0

	profile, err := c.StudentService.UpdateProfile(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if gradeChanged {
		if _, err := c.PathService.Rebuild(claims.UserID); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	}
	util.Success(ctx, profile)
}

// Leaderboard godoc
// @Summary XP排行榜
// @Tags 学生
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "榜单长度，默认10"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry} "成功"
// @Router /api/students/leaderboard [get]
func (c *StudentController) Leaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	entries, err := c.StudentService.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// GetPath godoc
// @Summary 我的学习路径
// @Description 按年级大纲生成的概念序列，索引随概念掌握单调前进
// @Tags 学生
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.LearningPath} "成功"
// @Failure 404 {object} util.Response "学生档案不存在"
// @Router /api/students/me/path [get]
func (c *StudentController) GetPath(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	path, err := c.PathService.GetOrBuild(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, path)
}
