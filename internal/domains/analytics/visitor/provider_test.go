package visitor

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct{}

func (failingStorage) Get(key string) (string, error) { return "", errors.New("storage unavailable") }
func (failingStorage) Set(key, value string) error    { return errors.New("storage unavailable") }

type readOnlyStorage struct{}

func (readOnlyStorage) Get(key string) (string, error) { return "", nil }
func (readOnlyStorage) Set(key, value string) error    { return errors.New("write blocked") }

func TestVisitorIDIsStableAcrossCalls(t *testing.T) {
	p := NewProvider(NewMemoryStorage())

	first := p.VisitorID()
	second := p.VisitorID()

	assert.Equal(t, first, second)
	assert.False(t, IsEphemeral(first))

	_, err := uuid.Parse(first)
	require.NoError(t, err)
}

func TestExistingIDIsReused(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(VisitorKey, "existing-id"))

	p := NewProvider(storage)
	assert.Equal(t, "existing-id", p.VisitorID())
}

func TestFailingStorageDegradesToEphemeralIDs(t *testing.T) {
	p := NewProvider(failingStorage{})

	first := p.VisitorID()
	second := p.VisitorID()

	assert.True(t, IsEphemeral(first))
	assert.True(t, IsEphemeral(second))
	// Ephemeral ids make no stability promise; each call mints a new one.
	assert.NotEqual(t, first, second)
}

func TestWriteFailureDegradesWithoutPersisting(t *testing.T) {
	p := NewProvider(readOnlyStorage{})

	id := p.VisitorID()
	assert.True(t, IsEphemeral(id))
}
