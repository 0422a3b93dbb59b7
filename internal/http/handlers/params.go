package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/yamdb-backend/internal/http/response"
	"github.com/yungbote/yamdb-backend/internal/platform/apierr"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
)

func dbcFrom(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

// uintParam reads a numeric path id. Malformed ids are reported as missing.
func uintParam(c *gin.Context, name, what string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RespondAPIError(c, apierr.NotFound(what))
		return 0, false
	}
	return uint(id), true
}

func pageFrom(c *gin.Context) pagination.Page {
	return pagination.FromQuery(c.Request.URL.Query())
}

// requestURL rebuilds the absolute URL of the current request for
// next/previous links.
func requestURL(c *gin.Context) *url.URL {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")); fwd != "" {
		scheme = strings.ToLower(strings.SplitN(fwd, ",", 2)[0])
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	}
}

func respondPage[T any](c *gin.Context, page pagination.Page, total int64, results []T) {
	response.RespondOK(c, pagination.NewEnvelope(requestURL(c), page, total, results))
}
