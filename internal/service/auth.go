package service

import (
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/repository"
	"Movie_Catalog/pkg/config"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims 令牌载荷：sub是用户ID，type区分access/refresh，密码等敏感信息绝不放进来
type Claims struct {
	Role model.Role `json:"role"`
	Type string     `json:"type"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() uint64 {
	id, _ := strconv.ParseUint(c.Subject, 10, 64)
	return id
}

type TokenPair struct {
	RefreshToken string `json:"refreshToken"`
	AccessToken  string `json:"accessToken"`
}

type AuthService interface {
	// rawToken: "Basic base64(email:password)"
	Register(ctx context.Context, rawToken string) (*model.User, error)
	Login(ctx context.Context, rawToken string) (*TokenPair, error)
	// rawToken: "Bearer <jwt>"，isRefresh决定期望的令牌类型
	ParseBearerToken(rawToken string, isRefresh bool) (*Claims, error)
	// 校验裸令牌，签名密钥由令牌自身的type决定
	VerifyToken(token string) (*Claims, error)
	IssueToken(userID uint64, role model.Role, isRefresh bool) (string, error)
	RotateAccessToken(rawToken string) (string, error)
	BlockToken(ctx context.Context, caller *Claims, token string) error
	IsBlocked(ctx context.Context, token string) (bool, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	cfg       config.AuthConfig
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, cfg config.AuthConfig) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
	}
}

// ParseBasicToken 解析Basic令牌：1、按空格切成两段 2、第二段base64解码 3、按冒号切成邮箱和密码
func ParseBasicToken(rawToken string) (email, password string, err error) {
	basicSplit := strings.Split(rawToken, " ")
	if len(basicSplit) != 2 {
		return "", "", ErrInvalidTokenFormat
	}

	decoded, err := base64.StdEncoding.DecodeString(basicSplit[1])
	if err != nil {
		return "", "", ErrInvalidTokenFormat
	}

	tokenSplit := strings.Split(string(decoded), ":")
	if len(tokenSplit) != 2 {
		return "", "", ErrInvalidTokenFormat
	}
	return tokenSplit[0], tokenSplit[1], nil
}

// 注册：1、解析Basic令牌 2、检查邮箱是否已注册 3、按HASH_ROUNDS加密密码 4、写库
func (s *authService) Register(ctx context.Context, rawToken string) (*model.User, error) {
	email, password, err := ParseBasicToken(rawToken)
	if err != nil {
		return nil, err
	}
	if email == "" || password == "" {
		return nil, ErrInvalidTokenFormat
	}

	_, err = s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := hashPassword(password, s.cfg.HashRounds)
	if err != nil {
		return nil, err
	}

	user := &model.User{Email: email, Password: hash, Role: model.RoleUser}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// 登录：1、解析Basic令牌 2、查用户并比对密码 3、签发refresh和access两个令牌
func (s *authService) Login(ctx context.Context, rawToken string) (*TokenPair, error) {
	email, password, err := ParseBasicToken(rawToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	refresh, err := s.IssueToken(user.ID, user.Role, true)
	if err != nil {
		return nil, err
	}
	access, err := s.IssueToken(user.ID, user.Role, false)
	if err != nil {
		return nil, err
	}
	return &TokenPair{RefreshToken: refresh, AccessToken: access}, nil
}

func (s *authService) ParseBearerToken(rawToken string, isRefresh bool) (*Claims, error) {
	bearerSplit := strings.Split(rawToken, " ")
	if len(bearerSplit) != 2 || strings.ToLower(bearerSplit[0]) != "bearer" {
		return nil, ErrInvalidTokenFormat
	}

	claims, err := s.VerifyToken(bearerSplit[1])
	if err != nil {
		return nil, err
	}
	if isRefresh && claims.Type != TokenTypeRefresh {
		return nil, ErrRefreshTokenRequired
	}
	if !isRefresh && claims.Type != TokenTypeAccess {
		return nil, ErrAccessTokenRequired
	}
	return claims, nil
}

// 校验流程：1、不验签先读出type 2、按type选密钥 3、带密钥完整校验（签名算法、过期时间）
func (s *authService) VerifyToken(token string) (*Claims, error) {
	unverified := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, unverified); err != nil {
		return nil, ErrInvalidToken
	}

	secret, err := s.secretFor(unverified.Type)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func (s *authService) secretFor(tokenType string) ([]byte, error) {
	switch tokenType {
	case TokenTypeAccess:
		return []byte(s.cfg.AccessTokenSecret), nil
	case TokenTypeRefresh:
		return []byte(s.cfg.RefreshTokenSecret), nil
	default:
		return nil, ErrInvalidToken
	}
}

func (s *authService) IssueToken(userID uint64, role model.Role, isRefresh bool) (string, error) {
	tokenType, secret, ttl := TokenTypeAccess, s.cfg.AccessTokenSecret, s.cfg.AccessTokenTTL
	if isRefresh {
		tokenType, secret, ttl = TokenTypeRefresh, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenTTL
	}

	now := time.Now()
	claims := Claims{
		Role: role,
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	// HS256对称签名，Header.Payload.Signature
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// 用refresh令牌换一个新的access令牌
func (s *authService) RotateAccessToken(rawToken string) (string, error) {
	claims, err := s.ParseBearerToken(rawToken, true)
	if err != nil {
		return "", err
	}
	return s.IssueToken(claims.UserID(), claims.Role, false)
}

// 封禁令牌：1、令牌必须是有效的 2、普通用户只能封禁自己的令牌 3、黑名单TTL = 令牌剩余有效期
func (s *authService) BlockToken(ctx context.Context, caller *Claims, token string) error {
	claims, err := s.VerifyToken(token)
	if err != nil {
		return err
	}
	if caller == nil || (caller.Role != model.RoleAdmin && caller.UserID() != claims.UserID()) {
		return ErrForbidden
	}
	return s.tokenRepo.Block(ctx, token, time.Until(claims.ExpiresAt.Time))
}

func (s *authService) IsBlocked(ctx context.Context, token string) (bool, error) {
	return s.tokenRepo.IsBlocked(ctx, token)
}

// bcrypt只看前72个字节，超出时GenerateFromPassword直接报错
const maxPasswordBytes = 72

func hashPassword(password string, rounds int) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), rounds)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
