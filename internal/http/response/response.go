package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/yamdb-backend/internal/platform/apierr"
	"github.com/yungbote/yamdb-backend/internal/platform/validation"
)

type APIError struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError renders err using the status and code it carries. Server
// errors are recorded on the gin context and replaced by a generic message.
func RespondAPIError(c *gin.Context, err error) {
	e := apierr.As(err)
	if e == nil {
		e = apierr.Internal(errors.New("unknown error"))
	}
	msg := e.Error()
	if e.Status >= http.StatusInternalServerError && e.Status != http.StatusServiceUnavailable {
		_ = c.Error(err)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(e.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    e.Code,
			Fields:  e.Fields,
		},
	})
}

// RespondBindError reports a request body that failed to decode or validate.
func RespondBindError(c *gin.Context, err error) {
	if fields := validation.Fields(err); len(fields) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{
			Error: APIError{
				Message: "invalid request body",
				Code:    "validation_error",
				Fields:  fields,
			},
		})
		return
	}
	RespondError(c, http.StatusBadRequest, "invalid_request", err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
