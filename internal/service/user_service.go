package service

import (
	"context"
	"errors"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"
	"github.com/haierkeys/note-share-service/pkg/logger"
	"github.com/haierkeys/note-share-service/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService 定义用户业务服务接口
type UserService interface {
	// Register 用户注册
	Register(ctx context.Context, params *dto.UserCreateRequest) (*dto.UserDTO, error)

	// Login 用户登录
	Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error)

	// ChangePassword 修改密码
	ChangePassword(ctx context.Context, uid int64, params *dto.UserChangePasswordRequest) error

	// GetInfo 获取用户信息
	GetInfo(ctx context.Context, uid int64) (*dto.UserDTO, error)

	// ResolveUsername 用户名解析为 UID
	ResolveUsername(ctx context.Context, username string) (int64, error)
}

// userService 实现 UserService 接口
type userService struct {
	userRepo     domain.UserRepository
	tokenManager app.TokenManager
	logger       *zap.Logger
	config       *ServiceConfig
}

// NewUserService 创建 UserService 实例
func NewUserService(userRepo domain.UserRepository, tokenManager app.TokenManager, logger *zap.Logger, config *ServiceConfig) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		logger:       logger,
		config:       config,
	}
}

// Register 用户注册
func (s *userService) Register(ctx context.Context, params *dto.UserCreateRequest) (*dto.UserDTO, error) {
	// 检查注册是否启用
	if s.config == nil || !s.config.User.RegisterIsEnable {
		return nil, code.ErrorUserRegisterIsDisable
	}

	// 验证用户名格式
	if !util.IsValidUsername(params.Username) {
		return nil, code.ErrorUserUsernameNotValid
	}
	if !util.IsValidEmail(params.Email) {
		return nil, code.ErrorInvalidParams.WithDetails("email")
	}

	// 验证密码一致性
	if params.Password == "" || params.Password != params.ConfirmPassword {
		return nil, code.ErrorUserPasswordNotMatch
	}

	// 检查邮箱是否已存在
	emailUser, err := s.userRepo.GetByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dbError(err)
	}
	if emailUser != nil {
		return nil, code.ErrorUserEmailAlreadyExists
	}

	// 检查用户名是否已存在
	nameUser, err := s.userRepo.GetByUsername(ctx, params.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dbError(err)
	}
	if nameUser != nil {
		return nil, code.ErrorUserAlreadyExists
	}

	// 生成密码哈希
	password, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return nil, code.ErrorPasswordHash.WithCause(err)
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Username: params.Username,
		Email:    params.Email,
		Password: password,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发注册在检查之后写入了相同的邮箱或用户名
		return nil, s.duplicateUserError(ctx, params.Email)
	}
	if err != nil {
		return nil, dbError(err)
	}

	s.logger.Info("user registered",
		zap.Int64(logger.FieldUID, user.UID),
		zap.String("username", user.Username),
	)
	return dto.NewUserDTO(user, ""), nil
}

// duplicateUserError reports which unique column a lost signup race collided on.
func (s *userService) duplicateUserError(ctx context.Context, email string) error {
	if u, err := s.userRepo.GetByEmail(ctx, email); err == nil && u != nil {
		return code.ErrorUserEmailAlreadyExists
	}
	return code.ErrorUserAlreadyExists
}

// Login 用户登录
func (s *userService) Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error) {
	credentials := params.Login()
	if credentials == "" {
		return nil, code.ErrorUserLoginFailed
	}

	var user *domain.User
	var err error

	// 根据凭证类型查找用户
	if util.IsValidEmail(credentials) {
		user, err = s.userRepo.GetByEmail(ctx, credentials)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, credentials)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 不暴露用户是否存在
			return nil, code.ErrorUserLoginFailed
		}
		return nil, dbError(err)
	}

	// 验证密码
	if !user.PasswordMatches(params.Password) {
		return nil, code.ErrorUserLoginFailed
	}

	token, err := s.tokenManager.Generate(user.UID, user.Username, clientIP)
	if err != nil {
		return nil, code.ErrorTokenGenerate.WithCause(err)
	}

	return dto.NewUserDTO(user, token), nil
}

// ChangePassword 修改密码
func (s *userService) ChangePassword(ctx context.Context, uid int64, params *dto.UserChangePasswordRequest) error {
	if params.Password != params.ConfirmPassword {
		return code.ErrorUserPasswordNotMatch
	}

	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorUserNotFound
		}
		return dbError(err)
	}

	// 验证旧密码
	if !user.PasswordMatches(params.OldPassword) {
		return code.ErrorUserOldPasswordFailed
	}

	password, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return code.ErrorPasswordHash.WithCause(err)
	}

	return dbError(s.userRepo.UpdatePassword(ctx, password, uid))
}

// GetInfo 获取用户信息
func (s *userService) GetInfo(ctx context.Context, uid int64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorUserNotFound
		}
		s.logger.Error("UserService.GetInfo failed",
			zap.Int64(logger.FieldUID, uid),
			zap.Error(err),
		)
		return nil, dbError(err)
	}
	return dto.NewUserDTO(user, ""), nil
}

// ResolveUsername 用户名解析为 UID
func (s *userService) ResolveUsername(ctx context.Context, username string) (int64, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, code.ErrorUserNotFound
		}
		return 0, dbError(err)
	}
	return user.UID, nil
}

// 确保 userService 实现了 UserService 接口
var _ UserService = (*userService)(nil)
