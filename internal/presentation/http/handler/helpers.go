package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/middleware"
	"github.com/sangkips/shopfront-pos/pkg/apperror"
)

// GetOperator extracts the logged-in operator from the Gin context
func GetOperator(c *gin.Context) string {
	return middleware.GetOperator(c)
}

// queryDay reads ?date=YYYY-MM-DD in local time, defaulting to today.
func queryDay(c *gin.Context, now func() time.Time) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return now(), nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, apperror.NewFieldError("date", "date must be in YYYY-MM-DD form")
	}
	return day, nil
}
