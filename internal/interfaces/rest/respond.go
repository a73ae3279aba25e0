package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/domain"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries everything the terminal UI needs to render a failure:
// a stable code, user-facing copy, and the flags that drive the re-login
// prompt and the retry affordance.
type ErrorDetail struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Severity     string `json:"severity"`
	IsRetryable  bool   `json:"is_retryable"`
	RequiresAuth bool   `json:"requires_auth"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(SuccessResponse{Success: true, Data: data})
}

// WriteError maps classified and domain errors to HTTP responses.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	statusCode, detail := BuildErrorResponse(err)

	if statusCode >= http.StatusInternalServerError {
		logger.Error("request failed", "code", detail.Code, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: detail})
}

func BuildErrorResponse(err error) (int, ErrorDetail) {
	if record, ok := application.IsErrorRecord(err); ok {
		return statusForKind(record.Kind), ErrorDetail{
			Code:         record.Code,
			Message:      record.Message,
			Severity:     string(record.Severity),
			IsRetryable:  record.Retryable,
			RequiresAuth: record.RequiresAuth,
		}
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return http.StatusBadRequest, ErrorDetail{
			Code:     domainErr.Code,
			Message:  domainErr.Message,
			Severity: string(application.SeverityWarning),
		}
	}

	return http.StatusInternalServerError, ErrorDetail{
		Code:        string(application.KindUnknown),
		Message:     "Something went wrong. Please try again.",
		Severity:    string(application.SeverityCritical),
		IsRetryable: true,
	}
}

func statusForKind(kind application.ErrorKind) int {
	switch kind {
	case application.KindValidation, application.KindInsufficientBalance:
		return http.StatusBadRequest
	case application.KindSessionExpired:
		return http.StatusUnauthorized
	case application.KindUnauthorizedAccess:
		return http.StatusForbidden
	case application.KindNotFound:
		return http.StatusNotFound
	case application.KindCancelled:
		return http.StatusRequestTimeout
	case application.KindTimeout:
		return http.StatusGatewayTimeout
	case application.KindRateLimited:
		return http.StatusTooManyRequests
	case application.KindNetwork, application.KindServerError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
