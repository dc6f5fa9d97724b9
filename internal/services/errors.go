package services

import "errors"

// Базовые ошибки сервисов. Контроллеры различают их через errors.Is
// и подбирают HTTP статус.
var (
	ErrValidation = errors.New("validation error") // 400: не заполнены обязательные поля
	ErrNotFound   = errors.New("not found")        // 404: сущность не найдена
	ErrConflict   = errors.New("conflict")         // 400: нарушение ссылочной целостности
)
