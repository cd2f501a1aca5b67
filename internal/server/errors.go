// Package server provides the HTTP REST API the display layer drives.
package server

import (
	"errors"
	"net/http"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/dispatch"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/ledger"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/merge"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/pipeline"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/selection"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		batchNotFound   *selection.ErrBatchNotFound
		invariant       *selection.ErrInvariantViolation
		incomplete      *dispatch.ErrIncompleteSelection
		recipient       *dispatch.ErrRecipientInvalid
		tooLarge        *dispatch.ErrPayloadTooLarge
		partial         *dispatch.ErrPartialFailure
		mergeFailed     *merge.ErrMergeFailed
		emptyMerge      *merge.ErrEmptyMergeInput
		ineligibleDocs  *merge.ErrIneligibleDocuments
		invalidMove     *pipeline.ErrInvalidTransition
		unknownStatus   *pipeline.ErrUnknownStatus
		reasonRequired  *pipeline.ErrReasonRequired
		ledgerWrite     *ledger.ErrWriteFailed
		recordImmutable *ledger.ErrRecordImmutable
	)
	switch {
	case errors.As(err, &batchNotFound):
		return http.StatusNotFound
	case errors.As(err, &incomplete), errors.As(err, &recipient),
		errors.As(err, &emptyMerge), errors.As(err, &ineligibleDocs),
		errors.As(err, &unknownStatus), errors.As(err, &reasonRequired):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &invalidMove), errors.As(err, &recordImmutable):
		return http.StatusConflict
	case errors.As(err, &partial):
		return http.StatusMultiStatus
	case errors.As(err, &mergeFailed), errors.As(err, &ledgerWrite):
		return http.StatusBadGateway
	case errors.As(err, &invariant):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
