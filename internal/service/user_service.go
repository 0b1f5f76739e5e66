package service

import (
	"context"
	"io"
	"mathpath_backend/internal/model"
	"mathpath_backend/internal/repository"
	"mathpath_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo  *repository.UserRepository
	AdminRepo *repository.AdminRepository
	Storage   *StorageService
}

func NewUserService(
	userRepo *repository.UserRepository,
	adminRepo *repository.AdminRepository,
	storage *StorageService,
) *UserService {
	return &UserService{
		UserRepo:  userRepo,
		AdminRepo: adminRepo,
		Storage:   storage,
	}
}

func (s *UserService) Get(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateUserRequest struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=50"`
	Language string `json:"language" binding:"omitempty,oneof=zh en"`
}

func (s *UserService) UpdateProfile(userID uint, req UpdateUserRequest) (*model.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

func (s *UserService) ChangePassword(userID uint, req ChangePasswordRequest) error {
	user, err := s.Get(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return util.ErrInvalidPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}

// UploadAvatar 上传头像并回写用户记录，返回头像URL
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	user, err := s.Get(userID)
	if err != nil {
		return "", err
	}

	url, err := s.Storage.UploadImage(ctx, filename, reader, size, contentType)
	if err != nil {
		return "", err
	}

	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}

// ListUsers 管理端用户列表
func (s *UserService) ListUsers(page, pageSize int, role, search string) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.AdminRepo.ListUsers(page, pageSize, role, search)
}

// SetDisabled 管理端启用/停用账号
func (s *UserService) SetDisabled(userID uint, disabled bool) (*model.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	user.Disabled = disabled
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPassword 管理端重置用户密码，不校验旧密码
func (s *UserService) ResetPassword(userID uint, newPassword string) error {
	user, err := s.Get(userID)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}

// SetRole 管理端调整用户角色
func (s *UserService) SetRole(userID uint, role model.UserRole) (*model.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
