package di_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fnderrors "github.com/nabbar/foundation/errors"
	"github.com/nabbar/foundation/di"
)

type Clock interface{ Now() string }
type fixedClock struct{ v string }

func (f fixedClock) Now() string { return f.v }

type Service struct {
	Clock Clock
	Name  string
}

func newService(c Clock, name string) *Service {
	return &Service{Clock: c, Name: name}
}

func TestRegisterAndGet(t *testing.T) {
	c := di.New()
	require.NoError(t, c.Register(fixedClock{v: "now"}, ""))

	v, ok := c.Get(reflect.TypeOf(fixedClock{}))
	require.True(t, ok)
	assert.Equal(t, "now", v.(fixedClock).Now())
}

func TestRegisterNamedLookup(t *testing.T) {
	c := di.New()
	require.NoError(t, c.Register(fixedClock{v: "named"}, "primary-clock"))

	v, ok := c.GetNamed("primary-clock")
	require.True(t, ok)
	assert.Equal(t, "named", v.(fixedClock).Now())
}

func TestResolveFillsFromContainer(t *testing.T) {
	c := di.New()
	require.NoError(t, c.Register(fixedClock{v: "resolved"}, ""))
	require.NoError(t, c.Register("svc-name", ""))

	out, err := c.Resolve(newService)
	require.NoError(t, err)
	svc := out.(*Service)
	assert.Equal(t, "resolved", svc.Clock.Now())
	assert.Equal(t, "svc-name", svc.Name)
}

func TestResolveUsesOverrideBeforeContainer(t *testing.T) {
	c := di.New()
	require.NoError(t, c.Register(fixedClock{v: "container"}, ""))
	require.NoError(t, c.Register("container-name", ""))

	out, err := c.Resolve(newService, fixedClock{v: "override"})
	require.NoError(t, err)
	svc := out.(*Service)
	assert.Equal(t, "override", svc.Clock.Now())
}

func TestResolveMissingDependencyFails(t *testing.T) {
	c := di.New()
	_, err := c.Resolve(newService)
	require.Error(t, err)
	assert.True(t, fnderrors.IsKind(err, fnderrors.KindInternal))
}

func TestResolvePropagatesConstructorError(t *testing.T) {
	ctor := func() (*Service, error) { return nil, errors.New("construction failed") }
	c := di.New()

	_, err := c.Resolve(ctor)
	require.Error(t, err)
	assert.Equal(t, "construction failed", err.Error())
}

func TestHasReportsRegistration(t *testing.T) {
	c := di.New()
	assert.False(t, c.Has(reflect.TypeOf(fixedClock{})))

	require.NoError(t, c.Register(fixedClock{}, ""))
	assert.True(t, c.Has(reflect.TypeOf(fixedClock{})))
}

type repo struct{ clock Clock }

func newRepo(c Clock) *repo { return &repo{clock: c} }

type handler struct{ repo *repo }

func newHandler(r *repo) *handler { return &handler{repo: r} }

func TestResolveWalksProviderChain(t *testing.T) {
	c := di.New()
	require.NoError(t, c.Register(fixedClock{v: "deep"}, ""))
	require.NoError(t, c.RegisterProvider(newRepo))

	out, err := c.Resolve(newHandler)
	require.NoError(t, err)
	assert.Equal(t, "deep", out.(*handler).repo.clock.Now())
}

func TestResolveOverrideReachesProviderParameters(t *testing.T) {
	c := di.New()
	require.NoError(t, c.Register(fixedClock{v: "container"}, ""))
	require.NoError(t, c.RegisterProvider(newRepo))

	out, err := c.Resolve(newHandler, fixedClock{v: "override"})
	require.NoError(t, err)
	assert.Equal(t, "override", out.(*handler).repo.clock.Now())
}

type nodeA struct{}
type nodeB struct{}

func TestResolveDetectsProviderCycle(t *testing.T) {
	c := di.New()
	require.NoError(t, c.RegisterProvider(func(*nodeB) *nodeA { return &nodeA{} }))
	require.NoError(t, c.RegisterProvider(func(*nodeA) *nodeB { return &nodeB{} }))

	_, err := c.Resolve(func(*nodeA) int { return 0 })
	require.Error(t, err)
	assert.True(t, fnderrors.IsKind(err, fnderrors.KindConcurrency))
	assert.Equal(t, fnderrors.CodeDICycle, fnderrors.As(err).Code())
}

func TestRegisterProviderRejectsNonFunc(t *testing.T) {
	c := di.New()
	assert.Error(t, c.RegisterProvider(42))
	assert.Error(t, c.RegisterProvider(func() (int, string) { return 0, "" }))
}
