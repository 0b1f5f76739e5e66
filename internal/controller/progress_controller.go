package controller

import (
	"errors"
	"mathpath_backend/internal/service"
	"mathpath_backend/internal/util"

	"github.com/gin-gonic/gin"

	"gorm.io/gorm"
)

type ProgressController struct {
	ProgressService       *service.ProgressService
	RecommendationService *service.RecommendationService
}

func NewProgressController(
	progressService *service.ProgressService,
	recommendationService *service.RecommendationService,
) *ProgressController {
	return &ProgressController{
		ProgressService:       progressService,
		RecommendationService: recommendationService,
	}
}

// List godoc
// @Summary 我的全部概念进度
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ConceptProgress} "成功"
// @Router /api/progress [get]
func (c *ProgressController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	list, err := c.ProgressService.GetStudentProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// Get godoc
// @Summary 单个概念的进度
// @Description 没有记录时返回 not_started 的初始进度
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   conceptId path string true "概念ID"
// @Success 200 {object} util.Response{data=model.ConceptProgress} "成功"
// @Router /api/progress/{conceptId} [get]
func (c *ProgressController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.GetConceptProgress(claims.UserID, ctx.Param("conceptId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// Reset godoc
// @Summary 重置概念进度
// @Description 把已掌握的概念重新放回练习循环（显式操作，掌握度保留）
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   conceptId path string true "概念ID"
// @Success 200 {object} util.Response{data=model.ConceptProgress} "成功"
// @Failure 404 {object} util.Response "没有进度记录"
// @Router /api/progress/{conceptId}/reset [post]
func (c *ProgressController) Reset(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.Reset(claims.UserID, ctx.Param("conceptId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// Recommend godoc
// @Summary 下一步学习建议
// @Description 基于掌握度、连对连错和前置图给出下一步动作，
// @Description conceptId 不传时取学习路径的当前概念
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   conceptId query string false "概念ID"
// @Success 200 {object} util.Response{data=service.RecommendationResponse} "成功"
// @Failure 404 {object} util.Response "概念或学习路径不存在"
// @Router /api/recommendation [get]
func (c *ProgressController) Recommend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	resp, err := c.RecommendationService.Next(claims.UserID, ctx.Query("conceptId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrConceptNotFound),
			errors.Is(err, util.ErrPathNotFound),
			errors.Is(err, util.ErrStudentNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, resp)
}
