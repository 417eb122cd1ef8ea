package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/listenupapp/staff-directory/internal/http/response"
)

// EnvelopeVersion is the version stamped into every JSON response.
const EnvelopeVersion = response.Version

// APIEnvelope is the response shape of every huma operation.
type APIEnvelope = response.Envelope

// EnvelopeTransformer wraps huma response bodies in the versioned envelope.
// Errors become {v, success:false, error:{code,message,details}}; raw byte
// bodies pass through untouched.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case []byte:
		return body, nil
	case response.Envelope, *response.Envelope:
		return body, nil
	case *APIError:
		return response.Failure(body.body()), nil
	case huma.StatusError:
		return response.Failure(response.ErrorBody{
			Code:    statusToCode(body.GetStatus()),
			Message: body.Error(),
		}), nil
	}

	if strings.HasPrefix(status, "4") || strings.HasPrefix(status, "5") {
		if err, ok := v.(error); ok {
			return response.Failure(response.ErrorBody{
				Code:    statusToCode(statusFromString(status)),
				Message: err.Error(),
			}), nil
		}
		return response.Failure(response.ErrorBody{
			Code:    statusToCode(statusFromString(status)),
			Message: "request failed",
			Details: v,
		}), nil
	}
	return response.Success(v), nil
}

func statusFromString(status string) int {
	n, err := strconv.Atoi(status)
	if err != nil {
		return http.StatusInternalServerError
	}
	return n
}

// requestLogger logs one line per request with the chi request ID.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
