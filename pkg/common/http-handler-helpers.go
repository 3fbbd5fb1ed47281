package common

import (
	"errors"
	"net/http"

	"github.com/JoshuaShepherd/movemental-templates/pkg/common/jsoncompat"
	"go.uber.org/zap"
)

// HttpError carries the status a handler error should be answered with.
type HttpError struct {
	Status int
	Err    error
}

func (e *HttpError) Error() string { return e.Err.Error() }

func (e *HttpError) Unwrap() error { return e.Err }

func BadRequest(err error) error {
	return &HttpError{Status: http.StatusBadRequest, Err: err}
}

func NotFound(err error) error {
	return &HttpError{Status: http.StatusNotFound, Err: err}
}

// JsonHandler answers OPTIONS requests and passes a JSON encoder to fn. An
// HttpError returned before anything was written becomes the response; other
// errors are logged.
func JsonHandler(logger *zap.Logger, fn func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}

		err := fn(w, r, jsoncompat.NewEncoder(w))
		if err == nil {
			return
		}
		var httpErr *HttpError
		if errors.As(err, &httpErr) {
			http.Error(w, httpErr.Error(), httpErr.Status)
			return
		}
		logger.Error("error handling request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
