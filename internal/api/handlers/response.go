package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dom/wallet-custody-api/internal/domain"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// MessageResponse acknowledges an action without further payload.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, message, detail string) {
	writeJSON(w, r, status, ErrorResponse{Message: message, Detail: detail})
}

// writeError maps a service error to its HTTP status. Unclassified errors
// become 500 with fallback as the message and the root cause as detail.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, fallback string) {
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case domain.KindAuth:
			writeMessage(w, r, http.StatusUnauthorized, de.Message, "")
			return
		case domain.KindValidation, domain.KindConflict:
			writeMessage(w, r, http.StatusBadRequest, de.Message, "")
			return
		}
	}

	log.Error(fallback, slog.String("err", err.Error()))
	writeMessage(w, r, http.StatusInternalServerError, fallback, rootCause(err).Error())
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func validationDetail(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s is not a valid email", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", fe.Field()))
		}
	}

	return strings.Join(msgs, ", ")
}
