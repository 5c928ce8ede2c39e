package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/models"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/store"
)

func respond(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, models.Response{
		Code:    code,
		Status:  models.StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func fail(c *gin.Context, code int, message string, data interface{}) {
	c.AbortWithStatusJSON(code, models.Response{
		Code:    code,
		Status:  models.StatusError,
		Message: message,
		Data:    data,
	})
}

// badInput answers 400, listing the failing fields when err came from the validator.
func badInput(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		fail(c, http.StatusBadRequest, "Invalid input: "+err.Error(), nil)
		return
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	fail(c, http.StatusBadRequest, "Validation failed", gin.H{"fields": fields})
}

// storeError maps a store error to its HTTP status. Anything unrecognised is
// logged and answered with a generic 500 so internals never reach clients.
func storeError(c *gin.Context, err error, action string) {
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		badInput(c, err)
	case errors.Is(err, store.ErrVotingClosed), errors.Is(err, store.ErrOutsideWindow):
		fail(c, http.StatusForbidden, err.Error(), gin.H{"reason": store.Reason(err)})
	case errors.Is(err, store.ErrVoterNotFound):
		fail(c, http.StatusNotFound, err.Error(), gin.H{"reason": store.Reason(err)})
	case errors.Is(err, store.ErrAlreadyVoted):
		fail(c, http.StatusConflict, err.Error(), gin.H{"reason": store.Reason(err)})
	case errors.Is(err, store.ErrInvalidCandidate):
		fail(c, http.StatusBadRequest, err.Error(), gin.H{"reason": store.Reason(err)})
	case errors.Is(err, store.ErrCandidateNotFound), errors.Is(err, store.ErrAdminNotFound):
		fail(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, store.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, store.ErrAdminInactive):
		fail(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, store.ErrInvalidWindow), errors.Is(err, store.ErrPasswordRequired):
		fail(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, store.ErrDuplicate), errors.Is(err, store.ErrLastAdmin):
		fail(c, http.StatusConflict, err.Error(), nil)
	default:
		log.Printf("Error %s: %v", action, err)
		fail(c, http.StatusInternalServerError, "Failed "+action, nil)
	}
}
