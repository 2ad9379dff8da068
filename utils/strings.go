package utils

import (
	"strings"

	"github.com/goccy/go-json"
)

func StructToBytes(s interface{}) ([]byte, error) {
	return json.Marshal(s)
}

func BytesToStruct(data []byte, s interface{}) error {
	return json.Unmarshal(data, s)
}

// TitleFromSlug turns the last path segment of a route into a page title,
// e.g. "/admin/appointments/all-appointments" -> "All Appointments".
// The root of an area falls back to "Dashboard".
func TitleFromSlug(path string) string {
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	last := "dashboard"
	if len(segments) > 0 {
		last = segments[len(segments)-1]
	}

	words := strings.Split(last, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
