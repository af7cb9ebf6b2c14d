package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error представляет ошибку HTTP запроса с кодом статуса и причиной,
// извлечённой из тела ответа ({error} предпочтительнее {message};
// если тело не распарсилось — статусная строка).
type Error struct {
	Message string // причина из тела ответа или статусная строка
	Info    string // сырое тело ответа (для диагностики)
	Status  int    // HTTP статус, 0 для транспортных ошибок
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// IsNotFound сообщает, что err — это HTTP 404.
// Такие ошибки не ретраятся политикой ревалидации.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// StatusOf возвращает HTTP статус ошибки, 0 если ошибка не от сервера
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
