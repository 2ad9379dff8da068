package utils

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const bearerPrefix = "Bearer "

// BearerHeader renders the Authorization header value for token.
func BearerHeader(token string) string {
	return fmt.Sprintf("Bearer %s", token)
}

// ParseBearer extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func ParseBearer(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// MessageFromBody pulls the backend's human readable "message" field out of
// an error response body.
func MessageFromBody(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, "message").String()
}
