package controller

import (
	"errors"
	"mathpath_backend/internal/model"
	"mathpath_backend/internal/service"
	"mathpath_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ConceptController struct {
	ConceptService *service.ConceptService
}

func NewConceptController(conceptService *service.ConceptService) *ConceptController {
	return &ConceptController{ConceptService: conceptService}
}

// ListByGrade godoc
// @Summary 按年级列出概念
// @Description 查询某年级的课程概念目录，可按领域筛选
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   grade query int true "年级 1-12"
// @Param   domain query string false "领域" Enums(number, algebra, geometry, measurement, data)
// @Success 200 {object} util.Response{data=[]model.Concept} "成功"
// @Failure 400 {object} util.Response "年级越界"
// @Router /api/concepts [get]
func (c *ConceptController) ListByGrade(ctx *gin.Context) {
	grade, err := strconv.Atoi(ctx.Query("grade"))
	if err != nil {
		util.BadRequest(ctx, "grade is required")
		return
	}
	domain := model.ConceptDomain(ctx.Query("domain"))

	concepts, err := c.ConceptService.ListByGrade(ctx.Request.Context(), grade, domain)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, concepts)
}

// Get godoc
// @Summary 概念详情
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "概念ID"
// @Success 200 {object} util.Response{data=model.Concept} "成功"
// @Failure 404 {object} util.Response "概念不存在"
// @Router /api/concepts/{id} [get]
func (c *ConceptController) Get(ctx *gin.Context) {
	concept, err := c.ConceptService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrConceptNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, concept)
}

// ListPrerequisites godoc
// @Summary 概念的前置边
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "概念ID"
// @Success 200 {object} util.Response{data=[]model.ConceptPrerequisite} "成功"
// @Router /api/concepts/{id}/prerequisites [get]
func (c *ConceptController) ListPrerequisites(ctx *gin.Context) {
	edges, err := c.ConceptService.ListPrerequisites(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, edges)
}

// Create godoc
// @Summary 创建概念
// @Description 教师/管理员向课程大纲添加概念
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ConceptRequest true "概念信息"
// @Success 201 {object} util.Response{data=model.Concept} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/teacher/concepts [post]
func (c *ConceptController) Create(ctx *gin.Context) {
	var req service.ConceptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	concept, err := c.ConceptService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, concept)
}

// Update godoc
// @Summary 更新概念
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "概念ID"
// @Param   body body service.ConceptRequest true "概念信息"
// @Success 200 {object} util.Response{data=model.Concept} "成功"
// @Failure 404 {object} util.Response "概念不存在"
// @Router /api/teacher/concepts/{id} [put]
func (c *ConceptController) Update(ctx *gin.Context) {
	var req service.ConceptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	concept, err := c.ConceptService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrConceptNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, concept)
}

// PrerequisiteRequest 前置边请求
type PrerequisiteRequest struct {
	PrerequisiteID string  `json:"prerequisiteId" binding:"required"`
	Importance     float64 `json:"importance" binding:"omitempty,gt=0,lte=1"`
}

// AddPrerequisite godoc
// @Summary 添加前置边
// @Description 声明 prerequisite -> concept 的依赖，成环请求会被拒绝
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "概念ID"
// @Param   body body PrerequisiteRequest true "前置概念"
// @Success 201 {object} util.Response{data=model.ConceptPrerequisite} "创建成功"
// @Failure 409 {object} util.Response "会使前置图成环"
// @Router /api/teacher/concepts/{id}/prerequisites [post]
func (c *ConceptController) AddPrerequisite(ctx *gin.Context) {
	var req PrerequisiteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	edge, err := c.ConceptService.AddPrerequisite(ctx.Param("id"), req.PrerequisiteID, req.Importance)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPrereqCycle):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrConceptNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, edge)
}

// RemovePrerequisite godoc
// @Summary 删除前置边
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "概念ID"
// @Param   prereqId path string true "前置概念ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/concepts/{id}/prerequisites/{prereqId} [delete]
func (c *ConceptController) RemovePrerequisite(ctx *gin.Context) {
	if err := c.ConceptService.RemovePrerequisite(ctx.Param("id"), ctx.Param("prereqId")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateProblem godoc
// @Summary 创建题目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProblemRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.Problem} "创建成功"
// @Failure 404 {object} util.Response "概念不存在"
// @Router /api/teacher/problems [post]
func (c *ConceptController) CreateProblem(ctx *gin.Context) {
	var req service.ProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	problem, err := c.ConceptService.CreateProblem(req)
	if err != nil {
		if errors.Is(err, util.ErrConceptNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, problem)
}

// ListProblems godoc
// @Summary 概念下的题目列表
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "概念ID"
// @Param   difficulty query int false "难度 1-5"
// @Success 200 {object} util.Response{data=[]model.Problem} "成功"
// @Router /api/concepts/{id}/problems [get]
func (c *ConceptController) ListProblems(ctx *gin.Context) {
	difficulty, _ := strconv.Atoi(ctx.Query("difficulty"))

	problems, err := c.ConceptService.ListProblems(ctx.Param("id"), difficulty)
	if err != nil {
		if errors.Is(err, util.ErrConceptNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, problems)
}

// PickProblem godoc
// @Summary 随机出一道题
// @Description 按概念与难度随机取题，该难度没有题时退回任意难度
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "概念ID"
// @Param   difficulty query int false "难度 1-5"
// @Success 200 {object} util.Response{data=model.Problem} "成功"
// @Failure 404 {object} util.Response "没有可用题目"
// @Router /api/concepts/{id}/problems/pick [get]
func (c *ConceptController) PickProblem(ctx *gin.Context) {
	difficulty, _ := strconv.Atoi(ctx.Query("difficulty"))

	problem, err := c.ConceptService.PickProblem(ctx.Param("id"), difficulty)
	if err != nil {
		if errors.Is(err, util.ErrProblemNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, problem)
}
