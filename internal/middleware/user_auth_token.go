package middleware

import (
	"strings"

	"github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// tokenFromRequest 依次从 Authorization 头、Token 头与查询参数读取 Token
// "Bearer " 与 "Token " 前缀会被去掉
func tokenFromRequest(c *gin.Context) string {
	var token string
	if s := c.GetHeader("Authorization"); s != "" {
		token = s
	} else if s := c.GetHeader("Token"); s != "" {
		token = s
	} else if s, ok := c.GetQuery("authorization"); ok {
		token = s
	} else if s, ok := c.GetQuery("token"); ok {
		token = s
	}

	token = strings.TrimSpace(token)
	for _, prefix := range []string{"Bearer ", "bearer ", "Token ", "token "} {
		if strings.HasPrefix(token, prefix) {
			return strings.TrimSpace(token[len(prefix):])
		}
	}
	return token
}

// UserAuthTokenWithManager resolves the caller from the request token.
// A missing token is ErrorNotUserAuthToken, an unparsable or expired one ErrorInvalidUserAuthToken.
// UserAuthTokenWithManager 用户 Token 认证中间件
func UserAuthTokenWithManager(tm app.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)

		token := tokenFromRequest(c)
		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		user, err := tm.Parse(token)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}
		c.Set(app.UserTokenKey, user)

		c.Next()
	}
}

// AdminOnly 仅允许管理员访问，需在 UserAuthTokenWithManager 之后使用
func AdminOnly(isAdmin func(uid int64) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAdmin(app.GetUID(c)) {
			app.NewResponse(c).ToResponse(code.ErrorAdminOnly)
			c.Abort()
			return
		}
		c.Next()
	}
}
