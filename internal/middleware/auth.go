package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/moviesphere/internal/utils"
)

// 登录凭证 Cookie 名
const TokenCookie = "token"

// 上下文键
const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxRole   = "role"
)

// Claims JWT 声明
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAuth 必须登录，页面请求跳转到登录页，API 请求返回 401
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractClaims(c, jwtSecret)
		if err != nil {
			if strings.Contains(c.GetHeader("Accept"), "text/html") {
				c.Redirect(http.StatusFound, "/auth/login?redirect="+c.Request.URL.Path)
				c.Abort()
				return
			}
			utils.Unauthorized(c, "")
			c.Abort()
			return
		}
		bind(c, claims, jwtSecret)
		c.Next()
	}
}

// OptionalAuth 有合法凭证时注入用户信息，否则按匿名访问处理
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := extractClaims(c, jwtSecret); err == nil {
			bind(c, claims, jwtSecret)
		}
		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID（未登录返回 0）
func GetUserID(c *gin.Context) uint {
	if id, ok := c.Get(ctxUserID); ok {
		if uid, ok := id.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetEmail 从上下文获取登录邮箱
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GenerateToken 生成 JWT Token
func GenerateToken(userID uint, email, role, jwtSecret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
}

// SetTokenCookie 写入登录凭证
func SetTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	c.SetCookie(TokenCookie, token, int(maxAge.Seconds()), "/", "", false, true)
}

// ClearTokenCookie 清除登录凭证
func ClearTokenCookie(c *gin.Context) {
	c.SetCookie(TokenCookie, "", -1, "/", "", false, true)
}

// bind 注入用户信息，有效期过半时滑动续期
func bind(c *gin.Context, claims *Claims, jwtSecret string) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxRole, claims.Role)

	if !shouldRefresh(claims) {
		return
	}
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if token, err := GenerateToken(claims.UserID, claims.Email, claims.Role, jwtSecret, lifetime); err == nil {
		SetTokenCookie(c, token, lifetime)
	}
}

// extractClaims 优先从 Cookie，其次从 Authorization Header 中解析凭证
func extractClaims(c *gin.Context, jwtSecret string) (*Claims, error) {
	tokenString, err := c.Cookie(TokenCookie)
	if err != nil || tokenString == "" {
		tokenString = ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			tokenString = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if tokenString == "" {
		return nil, jwt.ErrTokenMalformed
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// shouldRefresh 已消耗总有效期的一半以上
func shouldRefresh(claims *Claims) bool {
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return false
	}
	total := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	return time.Since(claims.IssuedAt.Time) > total/2
}
