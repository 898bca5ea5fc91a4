/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Seednode/codenames/internal/codenames"
	"github.com/rs/zerolog"
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

// roomLogger is handed to the registry; it stays silent unless verbose.
func roomLogger(cfg *Config) *zerolog.Logger {
	if !cfg.verbose {
		return nil
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: logDate,
	}).With().Timestamp().Logger()

	return &logger
}

// drainErrors logs handler write failures until errs is closed.
func drainErrors(cfg *Config, errs <-chan error) {
	for err := range errs {
		logf(cfg, "ERROR: %v", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, codenames.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, codenames.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, codenames.ErrRoomNotFound), errors.Is(err, codenames.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, codenames.ErrOutOfRange):
		return http.StatusBadRequest
	case codenames.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Detail string `json:"detail"`
}

func serveError(cfg *Config, w http.ResponseWriter, r *http.Request, err error, errs chan<- error) {
	status := statusFor(err)

	if codenames.IsRetryable(err) {
		w.Header().Set("Retry-After", "0")
	}

	detail := err.Error()
	if status == http.StatusInternalServerError {
		detail = http.StatusText(status)
	}

	logf(cfg, "ERROR: %s %s from %s: %v", r.Method, r.URL.Path, realIP(r), err)

	writeJSON(cfg, w, status, errorBody{Detail: detail}, errs)
}

func newPage(title, body string) string {
	return fmt.Sprintf("%s\n\n%s\n", title, body)
}
