package middleware

import (
	"Movie_Catalog/pkg/logger"
	_ "embed"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const anonymousRole = "anonymous"

//go:embed rbac_model.conf
var rbacModel string

//go:embed rbac_policy.csv
var rbacPolicy string

// NewEnforcer 用内嵌的模型和策略创建casbin执行器
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("加载casbin模型失败: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("创建casbin执行器失败: %w", err)
	}
	if err := loadPolicy(enforcer, rbacPolicy); err != nil {
		return nil, err
	}
	return enforcer, nil
}

// 逐行解析csv策略，#开头是注释
func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("添加策略 %v 失败: %w", parts, err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("添加角色继承 %v 失败: %w", parts, err)
			}
		default:
			return fmt.Errorf("无法识别的策略行: %q", line)
		}
	}
	return nil
}

// RBAC 必须挂在BearerAuth之后：匿名被拒返回401，已登录被拒返回403
func RBAC(enforcer *casbin.SyncedEnforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 没有匹配到路由，让gin直接返回404
		if c.FullPath() == "" {
			c.Next()
			return
		}
		subject := anonymousRole
		role, authenticated := CurrentRole(c)
		if authenticated {
			subject = role.String()
		}
		path := c.Request.URL.Path

		allowed, err := enforcer.Enforce(subject, path, c.Request.Method)
		if err != nil {
			logger.Log.WithError(err).Error("权限校验失败")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
			return
		}
		if allowed {
			c.Next()
			return
		}

		if !authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请先登录"})
			return
		}
		logger.Log.WithFields(logrus.Fields{
			"role":   subject,
			"path":   path,
			"method": c.Request.Method,
		}).Warn("越权访问被拒绝")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "没有访问权限",
			"path":      path,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
