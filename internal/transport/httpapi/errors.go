package httpapi

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// handleError переводит доменные ошибки в HTTP-статусы. Сырые ошибки хранилища
// наружу не отдаются.
func handleError(w http.ResponseWriter, err error, logger *log.Entry) {
	switch {
	case domain.IsDuplicateEmail(err):
		respondError(w, http.StatusConflict, "DUPLICATE_EMAIL", err.Error())
	case errors.Is(err, domain.ErrInvalidPhoneFormat):
		respondError(w, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
	case domain.IsValidation(err):
		respondError(w, http.StatusBadRequest, "INVALID_VALUE", err.Error())
	case domain.IsNotFound(err):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrConstraintViolation):
		respondError(w, http.StatusBadRequest, "CONSTRAINT_VIOLATION", err.Error())
	default:
		logger.WithError(err).Error("internal error")
		respondError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
