package controller

import (
	"errors"
	"mathpath_backend/internal/service"
	"mathpath_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminController 管理端看板与学生报告
type AdminController struct {
	AdminService *service.AdminService
}

func NewAdminController(adminService *service.AdminService) *AdminController {
	return &AdminController{AdminService: adminService}
}

// Dashboard godoc
// @Summary 平台看板
// @Description 用户规模、答题量、掌握概念总数和今日活跃等汇总指标
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.DashboardStats} "成功"
// @Router /api/admin/dashboard [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	stats, err := c.AdminService.Dashboard()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// StudentReport godoc
// @Summary 学生学习报告
// @Description 档案、全部概念进度和最近8周统计（教师/管理员视角）
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "学生用户ID"
// @Success 200 {object} util.Response{data=service.StudentReport} "成功"
// @Failure 404 {object} util.Response "学生档案不存在"
// @Router /api/admin/students/{id}/report [get]
func (c *AdminController) StudentReport(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	report, err := c.AdminService.StudentReport(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, report)
}
