package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/coreybb/quill/datastore"
	"github.com/coreybb/quill/generation"
	"github.com/coreybb/quill/webutil"
	"github.com/go-chi/chi/v5"
)

const maxJSONBodyBytes = 8 << 20

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, false)
}

// decodeOptionalJSON is decodeJSON for endpoints where an empty body is allowed.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, true)
}

// decodeBody decodes into a copy of *dst and stores it only when the whole body is
// valid, so a rejected payload leaves dst as the caller prepared it.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", dst)
	}
	if r.Body == nil || r.Body == http.NoBody {
		if allowEmpty {
			return nil
		}
		return webutil.ErrBadRequest("Request body is required")
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	staged := reflect.New(target.Elem().Type())
	staged.Elem().Set(target.Elem())
	if err := decoder.Decode(staged.Interface()); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return webutil.ErrTooLarge("Request body too large")
		case errors.Is(err, io.EOF) && allowEmpty:
			return nil
		case errors.Is(err, io.EOF):
			return webutil.ErrBadRequest("Request body is required")
		}
		return webutil.ErrBadRequestWrap("Invalid request payload: "+err.Error(), err)
	}
	target.Elem().Set(staged.Elem())
	return nil
}

func urlParam(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(chi.URLParam(r, name))
	if v == "" {
		return "", webutil.ErrBadRequest(fmt.Sprintf("Missing %s in path", name))
	}
	return v, nil
}

// storeError maps repository failures onto HTTP errors.
func storeError(err error, kind, id string) error {
	switch {
	case datastore.IsNotFound(err):
		return webutil.ErrNotFoundWrap(fmt.Sprintf("%s not found", kind), err)
	case errors.Is(err, datastore.ErrConflict):
		return webutil.ErrConflictWrap(fmt.Sprintf("%s already exists", kind), err)
	default:
		return fmt.Errorf("failed to access %s %s: %w", strings.ToLower(kind), id, err)
	}
}

// generationError maps generation failures: bad input is 400, upstream failures 502.
func generationError(err error) error {
	switch {
	case errors.Is(err, generation.ErrInvalidRequest):
		return webutil.ErrBadRequestWrap(err.Error(), err)
	case errors.Is(err, generation.ErrGenerationFailed):
		return webutil.ErrBadGatewayWrap(err.Error(), err)
	default:
		return err
	}
}
