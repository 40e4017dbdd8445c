package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/lecturekit/errors"
)

// RespondWithError writes err as an error envelope. AppErrors keep their
// status and code, oversized bodies become 413, deadlines 504 and anything
// else 500.
func RespondWithError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		err = apperrors.PayloadTooLarge(maxErr.Limit).WithCause(err)
	}
	appErr := apperrors.Wrap(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
