package types

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryEncoder is implemented by request types sent as URL query parameters
type QueryEncoder interface {
	Values() url.Values
}

func setString(v url.Values, key string, value *string) {
	if value != nil {
		v.Set(key, *value)
	}
}

func setBool(v url.Values, key string, value *bool) {
	if value != nil {
		v.Set(key, strconv.FormatBool(*value))
	}
}

func setUint(v url.Values, key string, value *uint64) {
	if value != nil {
		v.Set(key, strconv.FormatUint(*value, 10))
	}
}

func setList(v url.Values, key string, values []string) {
	if len(values) > 0 {
		v.Set(key, strings.Join(values, ","))
	}
}

// Ptr returns a pointer to value, for filling optional request fields
func Ptr[T any](value T) *T {
	return &value
}
