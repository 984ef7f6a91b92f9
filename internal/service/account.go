package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-playground/validator/v10"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/repository"
)

// 密码最短长度
const MinPasswordLength = 6

// AccountService 注册、登录与个人资料
type AccountService struct {
	users    *repository.UserRepository
	validate *validator.Validate
	log      *log.Helper
}

// NewAccountService 创建账号服务
func NewAccountService(repos *repository.Repositories, logger log.Logger) *AccountService {
	return &AccountService{
		users:    repos.User,
		validate: validator.New(),
		log:      log.NewHelper(log.With(logger, "module", "service/account")),
	}
}

// Register 注册新用户。用户名为空时取邮箱 @ 前的部分
func (s *AccountService) Register(ctx context.Context, email, username, password, confirm string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if password != confirm {
		return nil, ErrPasswordDiffers
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}

	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, storageError("查询用户", err)
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, storageError("查询用户", err)
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	user, err := s.users.Create(ctx, email, username, password)
	if err != nil {
		return nil, storageError("创建用户", err)
	}
	s.log.WithContext(ctx).Infof("新用户注册: id=%d", user.ID)
	return user, nil
}

// Login 邮箱密码登录
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, storageError("查询用户", err)
	}
	if user == nil || !s.users.CheckPassword(user, password) {
		return nil, ErrBadCredentials
	}
	return user, nil
}

// Profile 个人资料
func (s *AccountService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	if userID == 0 {
		return nil, ErrLoginRequired
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storageError("查询用户", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 修改用户名、邮箱与手机号，返回更新后的资料
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, username, email, phone string) (*model.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > 150 {
		return nil, ErrInvalidUsername
	}
	email = strings.TrimSpace(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}
	phone = strings.TrimSpace(phone)
	if phone != "" {
		if err := s.validate.Var(phone, "max=15,e164|numeric"); err != nil {
			return nil, ErrInvalidPhone
		}
	}

	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, storageError("查询用户", err)
	} else if existing != nil && existing.ID != userID {
		return nil, ErrEmailTaken
	}
	if existing, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, storageError("查询用户", err)
	} else if existing != nil && existing.ID != userID {
		return nil, ErrUsernameTaken
	}

	if err := s.users.UpdateProfile(ctx, userID, username, email, phone); err != nil {
		return nil, storageError("更新资料", err)
	}
	user.Username, user.Email, user.Phone = username, email, phone
	return user, nil
}

// ChangePassword 校验原密码后修改密码
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, current, next, confirm string) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !s.users.CheckPassword(user, current) {
		return ErrWrongPassword
	}
	if next != confirm {
		return ErrPasswordDiffers
	}
	if utf8.RuneCountInString(next) < MinPasswordLength {
		return ErrWeakPassword
	}
	if err := s.users.UpdatePassword(ctx, userID, next); err != nil {
		return storageError("修改密码", err)
	}
	return nil
}
