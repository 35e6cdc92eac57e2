package api

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Params holds query parameters. Values must be primitives (string, bool,
// integers, floats, time.Time, fmt.Stringer) or pointers to them.
type Params map[string]any

// BuildURL joins base and endpoint and appends the surviving params as a
// query string. Keys whose value is nil, a nil pointer or the empty string
// are dropped. Keys are emitted in sorted order so the result is stable.
func BuildURL(base *url.URL, endpoint string, params Params) string {
	root := ""
	if base != nil {
		root = strings.TrimRight(base.String(), "/")
	}
	target := root
	if endpoint != "" {
		target += "/" + strings.TrimLeft(endpoint, "/")
	}

	values := url.Values{}
	for key, raw := range params {
		if s, ok := paramString(raw); ok {
			values.Set(key, s)
		}
	}
	if len(values) == 0 {
		return target
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + values.Encode()
}

func paramString(raw any) (string, bool) {
	if raw == nil {
		return "", false
	}
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	value := rv.Interface()

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case bool:
		s = strconv.FormatBool(v)
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		s = v.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		s = v.String()
	default:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			s = strconv.FormatInt(rv.Int(), 10)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			s = strconv.FormatUint(rv.Uint(), 10)
		case reflect.Float32:
			s = strconv.FormatFloat(rv.Float(), 'f', -1, 32)
		case reflect.Float64:
			s = strconv.FormatFloat(rv.Float(), 'f', -1, 64)
		case reflect.String:
			s = rv.String()
		case reflect.Bool:
			s = strconv.FormatBool(rv.Bool())
		default:
			return "", false
		}
	}
	if s == "" {
		return "", false
	}
	return s, true
}

const defaultBaseURL = "http://127.0.0.1:8080/api"

// ParseBaseURL normalizes a configured base address. A bare host:port gets
// an http scheme; query and fragment are discarded, the path is kept.
func ParseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "parse api url %q", raw)
	}
	if u.Host == "" {
		return nil, errors.Errorf("api url %q has no host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u, nil
}
