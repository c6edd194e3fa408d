package services

import (
	"errors"

	apperrors "sparkletidy/internal/errors"
	"sparkletidy/internal/ledger"
	"sparkletidy/internal/repository"
)

// storeError maps repository sentinels onto API errors. Anything else means
// the store could not serve the request.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.ErrTransactionNotFound
	case errors.Is(err, repository.ErrDuplicateID):
		return apperrors.ErrDuplicateID
	case errors.Is(err, repository.ErrVersionConflict):
		return apperrors.ErrVersionConflict
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
}

// validationError wraps a ledger rule violation with its problem list as the message.
func validationError(err error) error {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		return apperrors.WithMessage(apperrors.ErrValidationFailed, verr.Error())
	}
	return apperrors.Wrap(apperrors.ErrValidationFailed, err)
}
