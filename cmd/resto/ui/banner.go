package ui

import (
	"errors"
	"fmt"
	"time"

	"restobrowse/internal/api"
	"restobrowse/internal/catalog"
)

// statusBanner describes a fetch error and whether cached data is shown. It
// returns "" when there is nothing to report.
func statusBanner(s Styles, err error, cachedAt time.Time, cached bool) string {
	if err == nil {
		return ""
	}
	if cached {
		if errors.Is(err, catalog.ErrOffline) {
			return s.Warning.Render(fmt.Sprintf("offline copy from %s", cachedAt.Local().Format("2 Jan 15:04")))
		}
		return s.Warning.Render(fmt.Sprintf("offline copy from %s (%s) · r to retry",
			cachedAt.Local().Format("2 Jan 15:04"), describeError(err)))
	}
	msg := describeError(err)
	if api.Retryable(err) {
		msg += " · r to retry"
	}
	return s.Error.Render(msg)
}

// describeError turns API errors into short user-facing text.
func describeError(err error) string {
	var se *api.ServerError
	var st *api.StatusError
	switch {
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	case api.NotFound(err):
		return "not found"
	case errors.As(err, &st):
		if st.Message != "" {
			return fmt.Sprintf("server error %d: %s", st.StatusCode, st.Message)
		}
		return fmt.Sprintf("server error %d", st.StatusCode)
	case errors.Is(err, catalog.ErrOffline):
		return "offline and nothing cached"
	default:
		return err.Error()
	}
}
