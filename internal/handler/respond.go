package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	apperrors "studio-api/pkg/errors"
	"studio-api/pkg/logger"
)

// ErrorBody is the error payload embedded in JSON responses
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Response is the standard JSON envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// writeJSON writes a success envelope
func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(Response{Success: true, Data: data}); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps an error to a JSON error envelope. AppError carries its own
// status and public message; anything else becomes a generic 500 with the
// detail logged only.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.WithError(err).Error("Unhandled error")
		appErr = apperrors.NewInternalError("Internal server error", err)
	} else if appErr.Internal != nil {
		log.WithError(appErr).Error("Request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	body := Response{
		Success: false,
		Error: &ErrorBody{
			Type:    string(appErr.Type),
			Message: appErr.Message,
		},
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode error response")
	}
}

// realIPAddress extracts the client IP, preferring proxy headers
func realIPAddress(r *http.Request) string {
	headers := []string{
		"CF-Connecting-IP", // Cloudflare
		"X-Forwarded-For",  // Standard proxy header
		"X-Real-IP",        // Nginx proxy
	}

	for _, header := range headers {
		if ip := r.Header.Get(header); ip != "" {
			// X-Forwarded-For can contain multiple IPs, take the first one
			if header == "X-Forwarded-For" {
				if firstIP := firstIP(ip); firstIP != "" {
					return firstIP
				}
				continue
			}
			return ip
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// firstIP extracts the first IP from a comma-separated list
func firstIP(ips string) string {
	for i, char := range ips {
		if char == ',' || char == ' ' {
			return ips[:i]
		}
	}
	return ips
}
