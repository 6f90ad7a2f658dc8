package application

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/onecart/storefront-api/internal/domains/users/domain"
	"github.com/onecart/storefront-api/internal/domains/users/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrNotFound signals an unknown user.
	ErrNotFound = errors.New("user not found")
	// ErrConflict signals the email is already registered.
	ErrConflict = errors.New("user already exists")
	// ErrAuthentication wraps authentication failures.
	ErrAuthentication = errors.New("authentication failed")
	// ErrPersistence signals a store that is unreachable or rejected a write.
	ErrPersistence = errors.New("user persistence failure")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrEmptyProduct),
		errors.Is(err, domain.ErrEmptySize),
		errors.Is(err, domain.ErrNegativeQuantity):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, ports.ErrInvalidCredentials):
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	case errors.Is(err, ports.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, ports.ErrDuplicateEmail):
		return fmt.Errorf("%w: %w", ErrConflict, err)
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
