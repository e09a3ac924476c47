package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mangarao/aarohi-tms/internal/lifecycle"
)

// dateLayouts are the timestamp shapes the SPA's date pickers produce,
// broadest first.
var dateLayouts = []string{
	time.RFC3339,
	lifecycle.ScheduleTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDate accepts the picker formats and returns nil for an empty string.
func parseDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// pathID parses the numeric id path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
