package middleware

import (
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/service"
	"Movie_Catalog/pkg/logger"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID    = "userID"
	ContextRole      = "role"
	ContextTokenType = "tokenType"
	ContextClaims    = "claims"

	// 只有这个路由接受refresh令牌
	refreshRoute = "/auth/token/access"
)

// 注册和登录用的是Basic令牌，交给handler自己解析
var basicRoutes = map[string]bool{
	"/auth/register": true,
	"/auth/login":    true,
}

// BearerAuth 解析Bearer令牌，没有令牌时以匿名身份继续，由RBAC决定能不能访问
// 流程：1、取出Authorization 2、校验"Bearer [token]"格式 3、验签并检查黑名单 4、把用户信息放入context
func BearerAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		if basicRoutes[c.Request.URL.Path] && strings.HasPrefix(strings.ToLower(authHeader), "basic ") {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "授权令牌格式不正确"})
			return
		}
		tokenString := parts[1]

		claims, err := authService.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": unauthorizedMessage(err)})
			return
		}

		blocked, err := authService.IsBlocked(c.Request.Context(), tokenString)
		if err != nil {
			logger.Log.WithError(err).Error("查询令牌黑名单失败")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "服务暂不可用"})
			return
		}
		if blocked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrTokenBlocked.Error()})
			return
		}

		if claims.Type == service.TokenTypeRefresh && c.Request.URL.Path != refreshRoute {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrAccessTokenRequired.Error()})
			return
		}

		c.Set(ContextUserID, claims.UserID())
		c.Set(ContextRole, claims.Role)
		c.Set(ContextTokenType, claims.Type)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

func unauthorizedMessage(err error) string {
	if errors.Is(err, service.ErrTokenExpired) {
		return service.ErrTokenExpired.Error()
	}
	return service.ErrInvalidToken.Error()
}

// CurrentClaims 取出BearerAuth放进context的令牌信息，匿名请求返回false
func CurrentClaims(c *gin.Context) (*service.Claims, bool) {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*service.Claims)
	return claims, ok
}

func CurrentUserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

func CurrentRole(c *gin.Context) (model.Role, bool) {
	v, exists := c.Get(ContextRole)
	if !exists {
		return 0, false
	}
	role, ok := v.(model.Role)
	return role, ok
}
