package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
)

func TestRefreshEventRoundTrip(t *testing.T) {
	event := NewRefreshEvent(catalog.EntityUniversity, "nightly import")
	require.NotEmpty(t, event.ID)
	require.False(t, event.EmittedAt.IsZero())

	data, err := event.Encode()
	require.NoError(t, err)

	decoded, err := DecodeRefreshEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, catalog.EntityUniversity, decoded.EntityType)
	assert.Equal(t, "nightly import", decoded.Reason)
}

func TestDecodeRefreshEventMalformed(t *testing.T) {
	_, err := DecodeRefreshEvent([]byte("{not json"))
	assert.Error(t, err)
}

func TestRefreshEventWholeCatalog(t *testing.T) {
	event := NewRefreshEvent("", "manual")
	data, err := event.Encode()
	require.NoError(t, err)

	decoded, err := DecodeRefreshEvent(data)
	require.NoError(t, err)
	// Empty entity type means the whole catalog changed.
	assert.Empty(t, decoded.EntityType)
}
