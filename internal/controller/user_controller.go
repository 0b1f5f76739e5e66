package controller

import (
	"errors"
	"mathpath_backend/internal/model"
	"mathpath_backend/internal/service"
	"mathpath_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.UpdateUserRequest true "资料信息"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Router /api/user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// ChangePassword godoc
// @Summary 修改密码
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ChangePasswordRequest true "新旧密码"
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "旧密码错误"
// @Router /api/user/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.ChangePassword(claims.UserID, req); err != nil {
		if errors.Is(err, util.ErrInvalidPassword) {
			util.Unauthorized(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept  mpfd
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "头像图片"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件缺失或类型不支持"
// @Router /api/user/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.UserService.UploadAvatar(ctx.Request.Context(), claims.UserID,
		fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// ListUsers godoc
// @Summary 用户列表
// @Description 管理端分页用户列表，支持角色筛选和姓名/邮箱搜索
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码，默认1"
// @Param   pageSize query int false "每页条数，默认20"
// @Param   role query string false "角色筛选"
// @Param   search query string false "姓名/邮箱关键词"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))

	users, total, err := c.UserService.ListUsers(page, pageSize, ctx.Query("role"), ctx.Query("search"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: total,
		Page:  page,
		Limit: pageSize,
	})
}

// GetUser godoc
// @Summary 用户详情
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/admin/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	user, err := c.UserService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// SetDisabledRequest 启停用请求
type SetDisabledRequest struct {
	Disabled bool `json:"disabled"`
}

// SetDisabled godoc
// @Summary 启用/停用账号
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   body body SetDisabledRequest true "停用标志"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Router /api/admin/users/{id}/disable [post]
func (c *UserController) SetDisabled(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	var req SetDisabledRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.SetDisabled(id, req.Disabled)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

// ResetPassword godoc
// @Summary 重置用户密码
// @Description 管理员直接设置新密码，不校验旧密码
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   body body ResetPasswordRequest true "新密码"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/admin/users/{id}/password [put]
func (c *UserController) ResetPassword(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.ResetPassword(id, req.NewPassword); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// SetRoleRequest 角色调整请求
type SetRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required,oneof=student parent teacher admin"`
}

// SetRole godoc
// @Summary 调整用户角色
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   body body SetRoleRequest true "新角色"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Router /api/admin/users/{id}/role [put]
func (c *UserController) SetRole(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	var req SetRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.SetRole(id, req.Role)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}
