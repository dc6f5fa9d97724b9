package api

import (
	"errors"
	"net/http"

	"boodaypizza/server/internal/services"
)

// statusFor подбирает HTTP статус под ошибку сервиса.
// Conflict намеренно отдается как 400 - так себя вел исходный API,
// и клиент показывает сообщение как есть.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
