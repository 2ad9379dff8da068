package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/octabyte/medtrack-gommon/apierror"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID string `json:"_id"`
}

func okReply(body string) reply {
	return reply{data: []byte(body), status: http.StatusOK}
}

func TestDecodePage(t *testing.T) {
	eight := `[{"_id":"1"},{"_id":"2"},{"_id":"3"},{"_id":"4"},{"_id":"5"},{"_id":"6"},{"_id":"7"},{"_id":"8"}]`

	tests := []struct {
		name    string
		body    string
		items   int
		hasNext bool
	}{
		{"next false", `{"data":{"data":` + eight + `,"nextPage":false}}`, 8, false},
		{"next null", `{"data":{"data":[{"_id":"1"}],"nextPage":null}}`, 1, false},
		{"next missing", `{"data":{"data":[]}}`, 0, false},
		{"next true", `{"data":{"data":[{"_id":"1"}],"nextPage":true}}`, 1, true},
		{"next page number", `{"data":{"data":[{"_id":"1"}],"nextPage":3}}`, 1, true},
		{"bare array short", `{"data":` + eight + `}`, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := decodePage[item](okReply(tt.body), 2)
			require.NoError(t, err)
			assert.Len(t, page.Items, tt.items)
			assert.Equal(t, tt.hasNext, page.HasNext)
			assert.Equal(t, 2, page.Number)
			assert.True(t, page.HasPrev())
		})
	}
}

func TestDecodePageMalformed(t *testing.T) {
	for _, body := range []string{`nope`, `{"data":{"rows":[]}}`, `{"data":{"data":[1,2]}}`} {
		_, err := decodePage[item](okReply(body), 1)
		assert.Equal(t, apierror.KindServer, apierror.KindOf(err), body)
	}
}

func TestMalformedKeepsStatus(t *testing.T) {
	var apiErr *apierror.Error

	_, err := decodeOne[models.User](reply{data: []byte(`<html>`), status: http.StatusCreated})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusCreated, apiErr.StatusCode)

	_, err = decodeIdentity(reply{data: []byte(`{}`), status: http.StatusAccepted}, "user_info")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusAccepted, apiErr.StatusCode)
}

func TestDecodeOne(t *testing.T) {
	wrapped, err := decodeOne[models.User](okReply(`{"data":{"_id":"u1","name":"Ana"}}`))
	require.NoError(t, err)
	assert.Equal(t, "u1", wrapped.ID)

	bare, err := decodeOne[models.User](okReply(`{"_id":"u2","name":"Ben"}`))
	require.NoError(t, err)
	assert.Equal(t, "u2", bare.ID)
}

func TestDecodeIdentity(t *testing.T) {
	identity, err := decodeIdentity(okReply(`{"admin_info":{"_id":"a1","name":"Dee","email":"d@x.io","role":"admin"}}`), "user_info", "admin_info")
	require.NoError(t, err)
	assert.Equal(t, models.Identity{ID: "a1", Name: "Dee", Email: "d@x.io", Role: enums.RoleAdmin}, identity)

	identity, err = decodeIdentity(okReply(`{"user_info":{"id":"p1","role":"patient"}}`), "user_info")
	require.NoError(t, err)
	assert.Equal(t, "p1", identity.ID)

	for _, body := range []string{
		`{"user_info":{"id":"p1","role":"doctor"}}`,
		`{"user_info":{"role":"patient"}}`,
		`{"user_info":"p1"}`,
		`{}`,
		`<html>`,
	} {
		_, err := decodeIdentity(okReply(body), "user_info")
		assert.Error(t, err, body)
	}
}

func TestListParamsQuery(t *testing.T) {
	assert.Equal(t, map[string]string{"page": "1"}, ListParams{}.Query())

	query := ListParams{
		Page:      2,
		Status:    enums.AppointmentStatusCompleted,
		Search:    "ana",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}.Query()
	assert.Equal(t, map[string]string{
		"page":      "2",
		"status":    "completed",
		"search":    "ana",
		"startDate": "2025-06-01",
		"endDate":   "2025-06-30",
	}, query)
}
