package middleware

import (
	"Scribe/internal/pkg/consts"
	"context"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// CommonMiddleware 确定站点根地址，邮件中的链接以此为前缀；
// 配置了 siteURL 时直接使用，否则依次取 Referer、X-Forwarded-Host、Host
func CommonMiddleware(siteURL string) gin.HandlerFunc {
	siteURL = strings.TrimRight(siteURL, "/")

	return func(c *gin.Context) {
		baseURL := siteURL
		if baseURL == "" {
			baseURL = inferBaseURL(c)
		}
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), consts.BaseURL, baseURL))
		c.Next()
	}
}

func inferBaseURL(c *gin.Context) string {
	if u, err := url.Parse(c.GetHeader("Referer")); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Scheme + "://" + u.Host
	}

	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}
	return scheme + "://" + host
}
