package http

import (
	"fmt"
	"net/http"

	"widgetgate/internal/domain"

	"github.com/gin-gonic/gin"
)

const contentTypeJS = "application/javascript; charset=utf-8"

// Cache policy differs by endpoint: the script artifact changes rarely,
// the configuration must propagate quickly, denials are never cached.
const (
	scriptCacheControl = "public, max-age=60, stale-while-revalidate=300"
	configCacheControl = "public, max-age=10, must-revalidate"
	denyCacheControl   = "no-store"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorScript is the self-executing body returned for every script-path
// failure. It only tags the console and sets a well-known flag so the
// widget owner can detect failures client-side; it never breaks the
// embedding page and never carries domains, keys or traces.
func errorScript(reason domain.DenyReason) []byte {
	return []byte(fmt.Sprintf(
		`(function(){try{console.error("[widgetgate] embed blocked: %s");}catch(e){}window.__WIDGET_EMBED_ERROR__=%q;})();`,
		reason, string(reason)))
}

func writeErrorScript(c *gin.Context, reason domain.DenyReason) {
	c.Header("Cache-Control", denyCacheControl)
	c.Data(reason.HTTPStatus(), contentTypeJS, errorScript(reason))
}

func writeErrorJSON(c *gin.Context, reason domain.DenyReason, message string) {
	c.Header("Cache-Control", denyCacheControl)
	c.JSON(reason.HTTPStatus(), errorResponse{Code: string(reason), Message: message})
}

func writeBadRequest(c *gin.Context, code, message string) {
	c.Header("Cache-Control", denyCacheControl)
	c.JSON(http.StatusBadRequest, errorResponse{Code: code, Message: message})
}
