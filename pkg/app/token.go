package app

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// DefaultTokenIssuer 默认 Token 签发者
const DefaultTokenIssuer = "note-share-service"

// DefaultTokenExpiry 未配置时的 Token 有效期
const DefaultTokenExpiry = 7 * 24 * time.Hour

// UserTokenKey is the gin context key holding the parsed *UserEntity.
const UserTokenKey = "user_token"

var (
	// ErrTokenInvalid 签名、格式或有效期校验失败
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenSubject 令牌中缺少有效的 UID
	ErrTokenSubject = errors.New("invalid token subject")
)

// TokenConfig Token 管理器配置
type TokenConfig struct {
	SecretKey string        // HS256 签名密钥
	Expiry    time.Duration // 有效期，0 时使用 DefaultTokenExpiry
	Issuer    string
}

// TokenManager issues and verifies the bearer tokens carried in the Authorization header.
// TokenManager 签发与校验登录令牌
type TokenManager interface {
	Generate(uid int64, username, ip string) (string, error)
	Parse(token string) (*UserEntity, error)
	Validate(token string) error
}

type tokenManager struct {
	config TokenConfig
}

// NewTokenManager 创建 TokenManager
func NewTokenManager(cfg TokenConfig) TokenManager {
	if cfg.Expiry <= 0 {
		cfg.Expiry = DefaultTokenExpiry
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

// UserEntity 令牌声明，认证中间件解析后存入 gin 上下文
type UserEntity struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
	IP       string `json:"ip"`
	jwt.RegisteredClaims
}

func (t *tokenManager) Generate(uid int64, username, ip string) (string, error) {
	now := time.Now()
	claims := &UserEntity{
		UID:      uid,
		Username: username,
		IP:       ip,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   strconv.FormatInt(uid, 10),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.config.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

func (t *tokenManager) Parse(token string) (*UserEntity, error) {
	return ParseTokenWithKey(token, t.config.SecretKey)
}

func (t *tokenManager) Validate(token string) error {
	_, err := t.Parse(token)
	return err
}

// ParseTokenWithKey 使用指定密钥解析 Token，只接受 HS256
func ParseTokenWithKey(tokenString string, secretKey string) (*UserEntity, error) {
	claims := &UserEntity{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Wrap(ErrTokenInvalid, err.Error())
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.UID <= 0 {
		return nil, ErrTokenSubject
	}

	return claims, nil
}

func userEntity(ctx *gin.Context) *UserEntity {
	v, exist := ctx.Get(UserTokenKey)
	if !exist {
		return nil
	}
	u, _ := v.(*UserEntity)
	return u
}

// GetUID extracts the caller's user ID from the request context.
// GetUID 从请求上下文中获取调用者 UID，未认证时为 0
func GetUID(ctx *gin.Context) int64 {
	if u := userEntity(ctx); u != nil {
		return u.UID
	}
	return 0
}

// GetUsername 从请求上下文中获取调用者用户名
func GetUsername(ctx *gin.Context) string {
	if u := userEntity(ctx); u != nil {
		return u.Username
	}
	return ""
}
