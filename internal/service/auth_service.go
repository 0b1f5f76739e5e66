package service

import (
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/model"
	"mathpath_backend/internal/repository"
	"mathpath_backend/internal/util"
	"mathpath_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo       *repository.UserRepository
	StudentRepo    *repository.StudentRepository
	StudentService *StudentService
	Cfg            *config.Config
}

func NewAuthService(
	userRepo *repository.UserRepository,
	studentRepo *repository.StudentRepository,
	studentService *StudentService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		UserRepo:       userRepo,
		StudentRepo:    studentRepo,
		StudentService: studentService,
		Cfg:            cfg,
	}
}

type RegisterRequest struct {
	Name       string           `json:"name" binding:"required,min=2,max=50"`
	Email      string           `json:"email" binding:"required,email"`
	Password   string           `json:"password" binding:"required,min=6,max=72"`
	Role       model.UserRole   `json:"role" binding:"omitempty,oneof=student parent teacher"`
	Grade      int              `json:"grade" binding:"omitempty,min=1,max=12"`
	SchoolType model.SchoolType `json:"schoolType" binding:"omitempty,oneof=public private homeschool"`
	Language   string           `json:"language" binding:"omitempty,oneof=zh en"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 注册/登录的统一返回
// swagger:model AuthResponse
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register 创建账号；学生角色同时建立学生档案（年级默认一年级）。
// admin 角色不开放注册，只能由已有管理员在用户管理里设置。
func (s *AuthService) Register(req RegisterRequest) (*AuthResponse, error) {
	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.Student
	}
	language := req.Language
	if language == "" {
		language = "zh"
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
		Language: language,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}

	if role == model.Student {
		grade := req.Grade
		if grade == 0 {
			grade = util.MinGrade
		}
		schoolType := req.SchoolType
		if schoolType == "" {
			schoolType = model.SchoolPublic
		}
		profile := &model.StudentProfile{
			UserID:     user.ID,
			Grade:      grade,
			SchoolType: schoolType,
			Level:      1,
		}
		if err := s.StudentRepo.Create(profile); err != nil {
			return nil, err
		}
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("user registered",
		zap.Uint("userId", user.ID), zap.String("role", string(user.Role)))
	return &AuthResponse{Token: token, User: user}, nil
}

// Login 校验凭证并签发JWT；学生登录顺带刷新连续学习天数
func (s *AuthService) Login(req LoginRequest) (*AuthResponse, error) {
	user, err := s.UserRepo.FindByEmail(req.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if user.Disabled {
		return nil, util.ErrPermissionDenied
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidPassword
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("failed to update last login", zap.Uint("userId", user.ID), zap.Error(err))
	}
	if user.Role == model.Student {
		if err := s.StudentService.TouchActivity(user.ID); err != nil {
			logger.Log.Warn("failed to touch student activity on login",
				zap.Uint("userId", user.ID), zap.Error(err))
		}
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: user}, nil
}
