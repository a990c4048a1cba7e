package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
)

// Response is a completed HTTP exchange with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Normalize maps the outcome of one exchange to success bytes or a
// *domain.Failure.
//
// err is the transport error (nil when a response was obtained).
// defaultMessage is used for a failure status whose body has no message.
func Normalize(resp *Response, err error, defaultMessage string) ([]byte, error) {
	if err != nil {
		return nil, transportFailure(err)
	}
	if resp == nil {
		return nil, domain.ErrUnreachable.WithMessage("no response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.ApplicationFailure(resp.StatusCode, failureMessage(resp.Body, defaultMessage))
	}
	return resp.Body, nil
}

func transportFailure(err error) *domain.Failure {
	if f, ok := domain.AsFailure(err); ok {
		return f
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ErrTimeout.WithCause(err)
	case errors.Is(err, context.Canceled):
		return domain.ErrCanceled.WithCause(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ErrTimeout.WithCause(err)
	}
	return domain.ErrUnreachable.WithCause(err)
}

// failureMessage extracts a non-empty string "message" field.
func failureMessage(body []byte, defaultMessage string) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return defaultMessage
	}
	msg := gjson.GetBytes(body, "message")
	if msg.Type != gjson.String || msg.Str == "" {
		return defaultMessage
	}
	return msg.Str
}

// lookup returns the value under key, or false when the key is absent or
// null. A body that is not JSON is a malformed response.
func lookup(body []byte, key string) (gjson.Result, bool, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, false, domain.ErrMalformedResponse.WithMessage("response body is not JSON")
	}
	r := gjson.GetBytes(body, gjson.Escape(key))
	if !r.Exists() || r.Type == gjson.Null {
		return r, false, nil
	}
	return r, true, nil
}

// DecodeOne decodes the object under key. An absent key yields nil.
func DecodeOne[T any](body []byte, key string) (*T, error) {
	r, ok, err := lookup(body, key)
	if err != nil || !ok {
		return nil, err
	}

	var v T
	if err := json.Unmarshal([]byte(r.Raw), &v); err != nil {
		return nil, domain.ErrMalformedResponse.WithCause(fmt.Errorf("decode %q: %w", key, err))
	}
	return &v, nil
}

// DecodeList decodes the array under key. An absent key yields an empty
// list. A numeric top-level "total" is surfaced as List.Total.
func DecodeList[T any](body []byte, key string) (domain.List[T], error) {
	list := domain.List[T]{Items: []T{}}

	r, ok, err := lookup(body, key)
	if err != nil {
		return list, err
	}
	if ok {
		if !r.IsArray() {
			return list, domain.ErrMalformedResponse.WithMessage(fmt.Sprintf("%q is not a list", key))
		}
		if err := json.Unmarshal([]byte(r.Raw), &list.Items); err != nil {
			return domain.List[T]{Items: []T{}}, domain.ErrMalformedResponse.WithCause(fmt.Errorf("decode %q: %w", key, err))
		}
	}

	if total := gjson.GetBytes(body, "total"); total.Type == gjson.Number {
		n := int(total.Int())
		list.Total = &n
	}
	return list, nil
}

// DecodeID returns the "id" of a create response verbatim. Numeric ids
// keep their textual form.
func DecodeID(body []byte) (string, error) {
	r, ok, err := lookup(body, "id")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrMalformedResponse.WithMessage("response has no id")
	}

	switch r.Type {
	case gjson.String:
		if r.Str == "" {
			return "", domain.ErrMalformedResponse.WithMessage("response has an empty id")
		}
		return r.Str, nil
	case gjson.Number:
		return r.Raw, nil
	default:
		return "", domain.ErrMalformedResponse.WithMessage("response id is not a scalar")
	}
}

// Decode decodes a whole success body.
func Decode[T any](body []byte) (*T, error) {
	if !gjson.ValidBytes(body) {
		return nil, domain.ErrMalformedResponse.WithMessage("response body is not JSON")
	}
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, domain.ErrMalformedResponse.WithCause(err)
	}
	return &v, nil
}
