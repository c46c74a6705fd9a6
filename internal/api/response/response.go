// Package response renders the uniform {data, errors} envelope used by every endpoint.
package response

import "github.com/labstack/echo/v4"

// Envelope wraps every payload. Errors is always present, empty on success.
type Envelope[T any] struct {
	Data   T        `json:"data"`
	Errors []string `json:"errors"`
}

// OK writes data with an empty error list.
func OK[T any](c echo.Context, status int, data T) error {
	return c.JSON(status, Envelope[T]{Data: data, Errors: []string{}})
}

// Fail writes a null data field and the given messages.
func Fail(c echo.Context, status int, msgs ...string) error {
	if msgs == nil {
		msgs = []string{}
	}
	return c.JSON(status, Envelope[any]{Data: nil, Errors: msgs})
}
