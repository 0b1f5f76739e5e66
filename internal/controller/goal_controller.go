package controller

import (
	"errors"
	"mathpath_backend/internal/service"
	"mathpath_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	GoalService *service.GoalService
}

func NewGoalController(goalService *service.GoalService) *GoalController {
	return &GoalController{GoalService: goalService}
}

// GetToday godoc
// @Summary 今天的学习目标
// @Description 取当天的目标与完成进度，没有记录时按默认目标创建
// @Tags 目标
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.DailyGoal} "成功"
// @Router /api/goals/today [get]
func (c *GoalController) GetToday(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	goal, err := c.GoalService.GetOrCreateToday(claims.UserID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// UpdateTargets godoc
// @Summary 调整今天的目标值
// @Tags 目标
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.UpdateGoalTargetsRequest true "新目标值"
// @Success 200 {object} util.Response{data=model.DailyGoal} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/goals/today [put]
func (c *GoalController) UpdateTargets(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateGoalTargetsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.UpdateTargets(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// GetWeekly godoc
// @Summary 本周学习统计
// @Description week 参数为周内任意一天(YYYY-MM-DD)，缺省为本周
// @Tags 目标
// @Produce  json
// @Security ApiKeyAuth
// @Param   week query string false "周内任意日期"
// @Success 200 {object} util.Response{data=model.WeeklyStats} "成功"
// @Router /api/goals/weekly [get]
func (c *GoalController) GetWeekly(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	at := time.Now()
	if week := ctx.Query("week"); week != "" {
		parsed, err := time.ParseInLocation(util.DateFormat, week, time.Local)
		if err != nil {
			util.BadRequest(ctx, "invalid week date, expected YYYY-MM-DD")
			return
		}
		at = parsed
	}

	stats, err := c.GoalService.GetWeekly(claims.UserID, at)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// StartSession godoc
// @Summary 开始学习会话
// @Tags 目标
// @Produce  json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=model.StudySession} "创建成功"
// @Router /api/sessions/start [post]
func (c *GoalController) StartSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.GoalService.StartSession(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// EndSession godoc
// @Summary 结束学习会话
// @Description 回填会话时长与答题数，并重算当天目标
// @Tags 目标
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId path int true "会话ID"
// @Success 200 {object} util.Response{data=model.StudySession} "成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 409 {object} util.Response "会话已结束"
// @Router /api/sessions/{sessionId}/end [post]
func (c *GoalController) EndSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessionID := util.MustParseUint(ctx.Param("sessionId"))
	if sessionID == 0 {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	session, err := c.GoalService.EndSession(claims.UserID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSessionAlreadyOver):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, session)
}
