package service

import (
	"errors"

	"github.com/rdcplates/carte-rose-backend/config"
	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/internal/app/repository"
	apperrors "github.com/rdcplates/carte-rose-backend/internal/errors"
	"github.com/rdcplates/carte-rose-backend/pkg/logger"
	"github.com/rdcplates/carte-rose-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type RegisterUserInput struct {
	Email    string
	Password string
	Name     string
	Office   string
	Role     model.UserRole
}

type AuthService interface {
	Register(input RegisterUserInput) (*model.User, error)
	Login(email, password string) (*util.TokenPair, *model.User, error)
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   *config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg *config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
	}
}

func (s *authService) Register(input RegisterUserInput) (*model.User, error) {
	hash, err := util.HashCredential(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = model.RoleOperator
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Office:       input.Office,
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	logger.Info("Operator account created", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	})
	return user, nil
}

func (s *authService) Login(email, password string) (*util.TokenPair, *model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyCredential(user.PasswordHash, password) {
		logger.Warn("Login rejected: bad password", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to issue tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("Operator logged in", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return tokens, user, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
