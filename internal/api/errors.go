package api

import (
	"net/http"

	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

// httpStatus maps domain error kinds to response codes. Ownership mismatches
// surface as 404 to avoid leaking resource existence to third parties.
func httpStatus(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotAuthorized,
		domain.KindInvalidTimeRange,
		domain.KindNotAvailable,
		domain.KindAlreadyDecided,
		domain.KindNotBookedYet,
		domain.KindEmptyField,
		domain.KindInvalidPageParams,
		domain.KindInvalidApproveParam:
		return http.StatusBadRequest
	case domain.KindNotFound,
		domain.KindOwnershipMismatch,
		domain.KindBookedByOwner:
		return http.StatusNotFound
	case domain.KindDuplicateEmail:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError translates a service failure into a status-coded JSON body.
func writeServiceError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("internal error")
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}
