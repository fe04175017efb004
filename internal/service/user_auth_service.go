package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/greenbasket/internal/config"
	"github.com/greenbasket/internal/constants"
	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserAuthService 用户认证服务。口令校验由外部身份服务完成，
// 这里负责签发/解析本站 JWT 并按邮箱落地用户行。
type UserAuthService struct {
	jwtCfg   config.JWTConfig
	userRepo repository.UserRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig) *UserAuthService {
	return &UserAuthService{
		jwtCfg:   jwtCfg,
		userRepo: userRepo,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User, isAdmin bool) (string, time.Time, error) {
	hours := s.jwtCfg.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	expiresAt := time.Now().Add(time.Duration(hours) * time.Hour)
	claims := UserJWTClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	claims := &UserJWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtCfg.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUserNotFound
	}
	return claims, nil
}

// EnsureUser 按邮箱取或建用户行（外部身份首次进入时落库）
func (s *UserAuthService) EnsureUser(email, displayName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if user.Status == constants.UserStatusDisabled {
			return nil, ErrUserDisabled
		}
		return user, nil
	}
	user = &models.User{
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		Status:      constants.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser 获取用户，禁用用户视为不可用
func (s *UserAuthService) GetUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Status == constants.UserStatusDisabled {
		return nil, ErrUserDisabled
	}
	return user, nil
}
