// internal/server/submissions.go
package server

import (
	"net/http"

	"package-directory/internal/common/errors"
	"package-directory/internal/submission/intake"

	"github.com/gin-gonic/gin"
)

// handleSubmit accepts a package submission from an authenticated caller and
// acknowledges it once the pending record is persisted. The review outcome
// arrives later through the moderation channel, never in this response.
func (s *Server) handleSubmit(c *gin.Context) {
	var input intake.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errors.NewValidationFailedError("request body is not valid JSON"))
		return
	}

	output, err := s.intake.Execute(c.Request.Context(), &input, callerIdentity(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, output)
}
