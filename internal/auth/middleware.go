package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxClaimsKey gin 上下文中令牌声明的键
const CtxClaimsKey = "auth_claims"

// Middleware Bearer 令牌校验中间件
// 未携带或无效令牌一律 401，后续处理器从上下文取当前用户
func Middleware(tokens TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		raw := strings.TrimSpace(h[len("Bearer "):])
		claims, err := tokens.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

// CurrentUserID 从上下文取当前用户 ID，未认证返回空串
func CurrentUserID(c *gin.Context) string {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return ""
	}
	claims, _ := v.(*Claims)
	if claims == nil {
		return ""
	}
	return claims.UserID
}
