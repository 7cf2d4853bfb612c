package storefront

import (
	"strings"

	"github.com/vinyl-next/internal/constants"
	"github.com/vinyl-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// sessionID 解析会话标识，优先取请求头，其次取 Cookie
// 缺失时直接响应错误并返回 false
func sessionID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.GetHeader(constants.SessionHeader))
	if id == "" {
		if cookie, err := c.Cookie(constants.SessionCookie); err == nil {
			id = strings.TrimSpace(cookie)
		}
	}
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.session_required", nil)
		return "", false
	}
	return id, true
}

// bearerToken 提取 Authorization 头里的 Bearer 凭证，缺失时返回空串
func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
