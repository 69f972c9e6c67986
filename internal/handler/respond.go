package handler

import (
	"github.com/labstack/echo/v4"
)

// Every endpoint answers with the same envelope: {success, message?, data?}.
// The original system grew a different shape per controller; the shared
// helpers below keep the contract uniform and make sure internal error
// strings never reach a client.

// respondOK writes a success envelope with an optional data payload.
func respondOK(c echo.Context, status int, message string, data interface{}) error {
	body := echo.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

// respondErr writes a failure envelope. The message must already be
// client-safe; handlers log the underlying error themselves.
func respondErr(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}
