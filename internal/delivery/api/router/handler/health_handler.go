package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Success:   true,
		Message:   "Server is running",
		Timestamp: time.Now().UTC(),
	})
}
