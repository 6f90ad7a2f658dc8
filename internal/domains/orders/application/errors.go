package application

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/onecart/storefront-api/internal/domains/orders/domain"
	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrNotFound signals an unknown order or reconciliation reference.
	ErrNotFound = errors.New("not found")
	// ErrInvalidStatus signals a status outside the lifecycle enum.
	ErrInvalidStatus = errors.New("invalid status update")
	// ErrTerminalState signals a guard violation against a finished order.
	ErrTerminalState = errors.New("order is in a terminal state")
	// ErrConflict signals a guard violation against an order in transit.
	ErrConflict = errors.New("order state conflict")
	// ErrConcurrentModification signals a stale optimistic version.
	ErrConcurrentModification = errors.New("concurrent modification")
	// ErrPaymentGateway signals that the remote payment call failed.
	ErrPaymentGateway = errors.New("payment gateway failure")
	// ErrPaymentIncomplete signals the gateway has not captured the payment yet.
	ErrPaymentIncomplete = errors.New("payment not completed")
	// ErrIdempotencyConflict signals a checkout key reused for a different payload.
	ErrIdempotencyConflict = errors.New("idempotency key conflict")
	// ErrPersistence signals a store that is unreachable or rejected a write.
	ErrPersistence = errors.New("order persistence failure")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrEmptyOwner),
		errors.Is(err, domain.ErrEmptyItems),
		errors.Is(err, domain.ErrInvalidItem),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrInvalidPaymentMethod):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrInvalidStatus):
		return fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	case errors.Is(err, domain.ErrDeliveredOrder):
		return fmt.Errorf("%w: %w", ErrTerminalState, err)
	case errors.Is(err, domain.ErrOrderInTransit):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, ports.ErrNotFound), errors.Is(err, ports.ErrIntentNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, ports.ErrVersionConflict):
		return fmt.Errorf("%w: %w", ErrConcurrentModification, err)
	}
	return err
}

func persistenceError(err error) error {
	mapped := mapError(err)
	if mapped != err {
		return mapped
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func gatewayError(err error) error {
	if errors.Is(err, ports.ErrIntentNotFound) {
		return mapError(err)
	}
	return fmt.Errorf("%w: %w", ErrPaymentGateway, err)
}
