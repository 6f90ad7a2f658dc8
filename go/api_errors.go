package storefrontserver

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	ordersapp "github.com/onecart/storefront-api/internal/domains/orders/application"
	usersapp "github.com/onecart/storefront-api/internal/domains/users/application"
	apierrors "github.com/onecart/storefront-api/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder("", validationProblem, orderProblem, userProblem)

// respondError translates application errors into RFC 7807 responses.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondBindError reports a malformed request body.
func respondBindError(c *gin.Context, err error) {
	responder.BadRequest(c, err.Error())
}

func validationProblem(err error) (apierrors.ProblemDetail, bool) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.ProblemDetail{}, false
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = "failed on " + fe.Tag()
	}
	return apierrors.NewValidationProblem(fields), true
}

func orderProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidStatus):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrTerminalState), errors.Is(err, ordersapp.ErrConflict):
		return apierrors.ErrInvalidTransition.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrConcurrentModification):
		return apierrors.ErrConcurrentUpdate.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrPaymentIncomplete):
		return apierrors.ErrPaymentIncomplete.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrPaymentGateway):
		return apierrors.ErrPaymentGateway.WithDetail("payment provider request failed"), true
	case errors.Is(err, ordersapp.ErrPersistence):
		return apierrors.ErrInternal.WithDetail("order store unavailable"), true
	}
	return apierrors.ProblemDetail{}, false
}

func userProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, usersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, usersapp.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("user not found"), true
	case errors.Is(err, usersapp.ErrConflict):
		return apierrors.NewConflictProblem("user already exists"), true
	case errors.Is(err, usersapp.ErrAuthentication):
		return apierrors.ErrUnauthorized.WithDetail("invalid credentials"), true
	case errors.Is(err, usersapp.ErrPersistence):
		return apierrors.ErrInternal.WithDetail("user store unavailable"), true
	}
	return apierrors.ProblemDetail{}, false
}
