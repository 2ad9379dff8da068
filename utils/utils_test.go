package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromSlug(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/admin/appointments/all-appointments", "All Appointments"},
		{"/admin/dashboard", "Dashboard"},
		{"/admin", "Admin"},
		{"/", "Dashboard"},
		{"", "Dashboard"},
		{"/user/medical-records/", "Medical Records"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromSlug(tt.path))
		})
	}
}

func TestDateParam(t *testing.T) {
	assert.Equal(t, "", DateParam(time.Time{}))
	assert.Equal(t, "2025-03-09", DateParam(time.Date(2025, 3, 9, 15, 4, 0, 0, time.UTC)))
}

func TestToday(t *testing.T) {
	fixed := func() time.Time {
		return time.Date(2025, 12, 31, 23, 30, 0, 0, time.FixedZone("PHT", 8*3600))
	}
	assert.Equal(t, "2025-12-31", Today(fixed))
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"standard", "Bearer abc", "abc", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"padded", "  Bearer   abc  ", "abc", true},
		{"missing token", "Bearer ", "", false},
		{"other scheme", "Basic abc", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := ParseBearer(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestBearerHeader(t *testing.T) {
	assert.Equal(t, "Bearer abc", BearerHeader("abc"))
}

func TestMessageFromBody(t *testing.T) {
	assert.Equal(t, "Invalid credentials", MessageFromBody([]byte(`{"message":"Invalid credentials"}`)))
	assert.Equal(t, "", MessageFromBody([]byte(`<html>oops</html>`)))
	assert.Equal(t, "", MessageFromBody(nil))
	assert.Equal(t, "", MessageFromBody([]byte(`{"error":"x"}`)))
}

func TestFromUTCToTimezone(t *testing.T) {
	utc := time.Date(2025, 6, 10, 20, 30, 0, 0, time.UTC)

	manila := FromUTCToTimezone(utc, "Asia/Manila")
	assert.Equal(t, "2025-06-11", manila.Format(DateLayout))
	assert.True(t, utc.Equal(manila))

	assert.Equal(t, utc, FromUTCToTimezone(utc, "Mars/Olympus_Mons"))
}
