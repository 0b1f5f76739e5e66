package controller

import (
	"mathpath_backend/internal/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// HealthCheck godoc
// @Summary 健康检查
// @Description 检查服务与数据库连接状态
// @Tags 系统
// @Produce  json
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 503 {object} util.Response "数据库不可用"
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	if err := sqlDB.Ping(); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"time":   time.Now().Format(util.TimeFormat),
	})
}
