package webutil

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
)

// AppHandler represents a handler function that returns an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to the standard http.HandlerFunc signature.
// It executes the AppHandler and handles any returned error by logging appropriately
// and sending a standardized JSON error response.
func MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: w}
		err := handler(tw, r)
		if err == nil {
			return
		}

		var httpErr *HTTPError
		var publicMessage string
		var statusCode int

		switch {
		case errors.As(err, &httpErr):
			statusCode = httpErr.Code
			publicMessage = httpErr.Message
			logLevel := slog.LevelWarn // Client errors are warnings server-side
			if statusCode >= 500 {
				logLevel = slog.LevelError
			}
			attrs := []any{
				"code", httpErr.Code,
				"msg", httpErr.Message,
				"path", r.URL.Path,
				"method", r.Method,
			}
			if cause := errors.Unwrap(httpErr); cause != nil && cause.Error() != publicMessage {
				attrs = append(attrs, "cause", cause)
			}
			slog.Log(r.Context(), logLevel, "Client error response", attrs...)

		case errors.Is(err, sql.ErrNoRows):
			statusCode = http.StatusNotFound
			publicMessage = msgNotFound
			slog.Info("Resource not found", "path", r.URL.Path, "method", r.Method, "error", err)

		default:
			statusCode = http.StatusInternalServerError
			publicMessage = msgInternalServer
			slog.Error("Unhandled internal error", "path", r.URL.Path, "method", r.Method, "error", err)
		}

		if tw.wroteHeader {
			slog.Warn("Handler returned error after writing response header",
				"path", r.URL.Path,
				"method", r.Method,
				"error", err,
			)
			return
		}

		RespondWithError(w, statusCode, publicMessage)
	}
}

// trackingWriter remembers whether the wrapped handler already committed a status line.
type trackingWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (tw *trackingWriter) WriteHeader(code int) {
	tw.wroteHeader = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *trackingWriter) Write(b []byte) (int, error) {
	tw.wroteHeader = true
	return tw.ResponseWriter.Write(b)
}

func (tw *trackingWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}
