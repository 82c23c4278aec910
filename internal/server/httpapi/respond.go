package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pontodigital/pontod/internal/common"
)

// envelope is the response shape every endpoint uses. Extra payload fields
// are merged in next to it.
type envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// respondOK writes a success envelope with the given payload fields merged in.
func respondOK(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{
		"success":    true,
		"message":    message,
		"statusCode": status,
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError maps service errors onto HTTP statuses and writes the failure
// envelope. Internal causes are never echoed to the client.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		message = verr.Error()
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, common.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		status = http.StatusUnauthorized
		message = "unauthorized"
	}

	c.JSON(status, envelope{Success: false, Message: message, StatusCode: status})
}
