package presence

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/memoria-app/be-memoria-platform/config"
	"github.com/memoria-app/be-memoria-platform/middleware"
	"github.com/memoria-app/be-memoria-platform/pkg/logger"
)

// HeartbeatHandler refreshes the caller's last-active timestamp. Presence is
// best effort: a Redis failure never breaks the client.
func HeartbeatHandler(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)

	if err := config.SetLastActive(userID); err != nil {
		logger.FromContext(c.Request().Context()).Warn("failed to record heartbeat",
			logger.UserID(userID), logger.Err(err))
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
