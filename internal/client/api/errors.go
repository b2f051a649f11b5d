package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskpulse/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// Error is a non-2xx response from the server.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Is lets callers match responses with errors.Is.
func (e *Error) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return target == ErrUnauthorized || target == common.ErrUnauthorized
	case http.StatusNotFound:
		return target == common.ErrorNotFound
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return target == ErrUnavailable
	case http.StatusBadRequest:
		switch e.Message {
		case common.ErrDuplicateUser.Error():
			return target == common.ErrDuplicateUser
		case common.ErrInvalidCredentials.Error():
			return target == common.ErrInvalidCredentials
		}
		return target == common.ErrValidation
	}
	return false
}
