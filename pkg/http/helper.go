package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	apperrors "servicehub/pkg/errors"
)

// DecodeJSON decodes a request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidInput("request body is empty")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperrors.New(apperrors.CodeInvalidInput, "request body too large", http.StatusRequestEntityTooLarge)
		}
		return apperrors.InvalidInput("invalid JSON body: " + err.Error())
	}
	return nil
}

// QueryFloat parses an optional float query parameter. ok is false when absent.
func QueryFloat(r *http.Request, key string) (value float64, ok bool, err error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, apperrors.InvalidInput("invalid " + key + " parameter: " + s)
	}
	return v, true, nil
}

// QueryPoint reads the required lat and lng query parameters.
func QueryPoint(r *http.Request) (lat, lng float64, err error) {
	lat, okLat, err := QueryFloat(r, "lat")
	if err != nil {
		return 0, 0, err
	}
	lng, okLng, err := QueryFloat(r, "lng")
	if err != nil {
		return 0, 0, err
	}
	if !okLat || !okLng {
		return 0, 0, apperrors.InvalidInput("lat and lng query parameters are required")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, apperrors.InvalidInput("lat/lng out of range")
	}
	return lat, lng, nil
}
