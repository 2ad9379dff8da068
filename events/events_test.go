package events

import (
	"context"
	"testing"
	"time"

	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	at := time.Date(2025, 6, 10, 9, 0, 0, 0, time.FixedZone("PHT", 8*3600))
	a := New(TypeLogin, at)
	b := New(TypeLogin, at)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, time.UTC, a.OccurredAt.Location())
	assert.Equal(t, "session.login", a.RoutingKey())
}

func TestEncodeDecode(t *testing.T) {
	e := New(TypeRejected, time.Now())
	e.Path = "/admin/dashboard"
	e.Reason = "unreachable"
	e.Role = enums.RoleStaff

	data, err := e.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"session.rejected"`)
	assert.NotContains(t, string(data), "user_id")

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, e.Reason, decoded.Reason)
	assert.True(t, e.OccurredAt.Equal(decoded.OccurredAt))
}

func TestBuffer(t *testing.T) {
	ctx := context.Background()
	var buf Buffer
	require.NoError(t, buf.Publish(ctx, New(TypeLogin, time.Now())))
	require.NoError(t, buf.Publish(ctx, New(TypeLogout, time.Now())))

	assert.Equal(t, []Type{TypeLogin, TypeLogout}, buf.Types())
	assert.Len(t, buf.Events(), 2)
	assert.NoError(t, Discard{}.Publish(ctx, New(TypeLogin, time.Now())))
}
