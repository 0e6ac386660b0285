package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidJWTToken    = errors.New("invalid jwt token")
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(user *domain.User, ttl time.Duration) (string, error)
}

type authServiceImpl struct {
	userRepo domain.UserRepository
	jwtCfg   config.JWTConfig
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo domain.UserRepository, jwtCfg config.JWTConfig) (AuthService, error) {
	if jwtCfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	return &authServiceImpl{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
	}, nil
}

func (s *authServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Get().Info("User registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return s.issueToken(user)
}

func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewUnauthorizedError(ErrInvalidCredentials.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.NewUnauthorizedError(ErrInvalidCredentials.Error())
	}

	return s.issueToken(user)
}

func (s *authServiceImpl) issueToken(user *domain.User) (*dto.AuthResponse, error) {
	token, err := s.CreateJWT(user, s.jwtCfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}
	return &dto.AuthResponse{
		Token: token,
		User: dto.UserInfo{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

func (s *authServiceImpl) CreateJWT(user *domain.User, ttl time.Duration) (string, error) {
	claims := dto.AuthClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtCfg.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired")
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}
