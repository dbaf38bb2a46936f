// Package response implements the uniform API envelope.  Every endpoint
// answers with {success, message, data, errors} plus an explicit status
// code, so clients never have to branch on response shape.
package response

import "github.com/labstack/echo/v4"

// Envelope is the wire format shared by all endpoints.  Errors carries
// field-level diagnostic detail; internal error text is logged server-side
// and never placed here verbatim.
type Envelope struct {
    Success bool   `json:"success"`
    Message string `json:"message"`
    Data    any    `json:"data"`
    Errors  any    `json:"errors"`
}

// JSON writes an envelope with the given status code.
func JSON(c echo.Context, status int, success bool, message string, data, errs any) error {
    return c.JSON(status, Envelope{Success: success, Message: message, Data: data, Errors: errs})
}

// OK writes a successful envelope.
func OK(c echo.Context, status int, message string, data any) error {
    return JSON(c, status, true, message, data, nil)
}

// Fail writes a failed envelope with no diagnostic detail.
func Fail(c echo.Context, status int, message string) error {
    return JSON(c, status, false, message, nil, nil)
}

// FailWith writes a failed envelope carrying field-level errors.
func FailWith(c echo.Context, status int, message string, errs any) error {
    return JSON(c, status, false, message, nil, errs)
}
