package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/checkin/pkg/client"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

// logError logs err together with the request's correlation id and returns a short error for cobra.
func logError(err error, correlation, msg string) error {
	event := log.Error().Err(err)
	if correlation != "" {
		event = event.Str("correlation_id", correlation)
	}
	var apiErr client.APIError
	if errors.As(err, &apiErr) {
		event = event.Int("status", apiErr.StatusCode)
	}
	event.Msg(msg)
	return fmt.Errorf("%s", msg)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
