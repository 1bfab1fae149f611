package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabbar/foundation/errors"
	"github.com/nabbar/foundation/eventbus"
	"github.com/nabbar/foundation/registry"
)

func TestRegisterAndGet(t *testing.T) {
	r := registry.New(nil)

	err := r.Register("component", "db", "postgres-conn", nil, nil)
	require.NoError(t, err)

	v, ok := r.Get("component", "db")
	require.True(t, ok)
	assert.Equal(t, "postgres-conn", v)
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := registry.New(nil)
	require.NoError(t, r.Register("component", "db", "v1", nil, nil))

	err := r.Register("component", "db", "v2", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindResource))
}

func TestAliasResolvesToCanonical(t *testing.T) {
	r := registry.New(nil)
	require.NoError(t, r.Register("component", "database", "v1", []string{"db", "pg"}, nil))

	v, ok := r.Get("component", "db")
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	v, ok = r.Get("component", "pg")
	require.True(t, ok)
	assert.Equal(t, "v1", v)
}

func TestAliasCollisionRejected(t *testing.T) {
	r := registry.New(nil)
	require.NoError(t, r.Register("component", "a", "v1", []string{"shared"}, nil))

	err := r.Register("component", "b", "v2", []string{"shared"}, nil)
	require.Error(t, err)
}

func TestRemoveDropsCanonicalAndAliases(t *testing.T) {
	r := registry.New(nil)
	require.NoError(t, r.Register("component", "db", "v1", []string{"d"}, nil))

	assert.True(t, r.Remove("component", "db"))
	assert.False(t, r.Has("component", "db"))
	assert.False(t, r.Has("component", "d"))
}

func TestListDimensionReturnsSnapshot(t *testing.T) {
	r := registry.New(nil)
	require.NoError(t, r.Register("component", "a", 1, nil, nil))
	require.NoError(t, r.Register("component", "b", 2, nil, nil))

	list := r.ListDimension("component")
	assert.Len(t, list, 2)

	require.NoError(t, r.Register("component", "c", 3, nil, nil))
	assert.Len(t, list, 2, "snapshot must not observe later mutations")
}

func TestGetMetadata(t *testing.T) {
	r := registry.New(nil)
	md := map[string]any{"owner": "platform"}
	require.NoError(t, r.Register("component", "db", "v1", nil, md))

	got, ok := r.GetMetadata("component", "db")
	require.True(t, ok)
	assert.Equal(t, "platform", got["owner"])
}

func TestRegisterEmitsOnBus(t *testing.T) {
	bus := eventbus.New()
	var gotTopic string
	var gotPayload any

	bus.Subscribe("component.registered", func(topic string, payload any) {
		gotTopic = topic
		gotPayload = payload
	})

	r := registry.New(bus)
	require.NoError(t, r.Register("component", "db", "v1", nil, nil))

	assert.Equal(t, "component.registered", gotTopic)
	assert.Equal(t, map[string]string{"dimension": "component", "name": "db"}, gotPayload)
}

func TestDimensionsAreIndependent(t *testing.T) {
	r := registry.New(nil)
	require.NoError(t, r.Register("component", "x", 1, nil, nil))
	require.NoError(t, r.Register("command", "x", 2, nil, nil))

	v, _ := r.Get("component", "x")
	assert.Equal(t, 1, v)

	v, _ = r.Get("command", "x")
	assert.Equal(t, 2, v)
}
