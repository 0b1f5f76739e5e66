package controller

import (
	"errors"
	"mathpath_backend/internal/service"
	"mathpath_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AttemptController 答题提交与AI提示
type AttemptController struct {
	ProgressService *service.ProgressService
	ConceptService  *service.ConceptService
	AI              *service.AIService
}

func NewAttemptController(
	progressService *service.ProgressService,
	conceptService *service.ConceptService,
	ai *service.AIService,
) *AttemptController {
	return &AttemptController{
		ProgressService: progressService,
		ConceptService:  conceptService,
		AI:              ai,
	}
}

// Submit godoc
// @Summary 提交答题
// @Description 提交学生作答，触发AI评估和掌握度更新。AI评估失败时
// @Description 答题仍会记录为未评分并返回502，客户端可稍后重试评估。
// @Tags 答题
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.SubmitAttemptRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.SubmitAttemptResult} "成功"
// @Failure 400 {object} util.Response "提交内容不完整"
// @Failure 404 {object} util.Response "题目不存在"
// @Failure 409 {object} util.Response "写冲突，重试次数耗尽"
// @Failure 502 {object} util.Response "AI评估失败，已按未评分记录"
// @Router /api/attempts [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.SubmitAttempt(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEvaluationFailed):
			// 答题已记录，带上结果体返回可重试错误
			ctx.JSON(502, util.Response{Code: 502, Message: err.Error(), Data: result})
		case errors.Is(err, util.ErrInvalidAttempt):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrProblemNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrWriteConflict):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// HintRequest 提示请求
type HintRequest struct {
	ProblemID string `json:"problemId" binding:"required"`
	Level     int    `json:"level" binding:"omitempty,min=1,max=3"`
}

// Hint godoc
// @Summary 获取AI提示
// @Description 按提示级别(1-3)生成一条引导，级别越高越接近完整解法
// @Tags 答题
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body HintRequest true "题目与提示级别"
// @Success 200 {object} util.Response{data=service.HintResponse} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Failure 502 {object} util.Response "AI服务不可用"
// @Router /api/attempts/hint [post]
func (c *AttemptController) Hint(ctx *gin.Context) {
	var req HintRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Level == 0 {
		req.Level = 1
	}

	problem, err := c.ConceptService.GetProblem(req.ProblemID)
	if err != nil {
		if errors.Is(err, util.ErrProblemNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	hint, err := c.AI.GenerateHint(ctx.Request.Context(), problem, req.Level)
	if err != nil {
		util.BadGateway(ctx, "提示生成失败，请稍后再试")
		return
	}
	util.Success(ctx, hint)
}

// History godoc
// @Summary 某概念的答题历史
// @Tags 答题
// @Produce  json
// @Security ApiKeyAuth
// @Param   conceptId path string true "概念ID"
// @Param   limit query int false "最多返回条数，默认20"
// @Success 200 {object} util.Response{data=[]model.ProblemAttempt} "成功"
// @Router /api/attempts/concept/{conceptId} [get]
func (c *AttemptController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.Query("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	attempts, err := c.ProgressService.AttemptRepo.ListByStudentConcept(claims.UserID, ctx.Param("conceptId"), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
