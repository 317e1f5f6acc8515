package injection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestManagerInjectors tests registration of injectors.
func TestManagerInjectors(t *testing.T) {
	initial := &testInjector{label: "initial"}
	prio30 := &testInjector{label: "30"}
	prio10 := &testInjector{label: "10"}
	prio40 := &testInjector{label: "40"}

	manager := New(WithInjectors(initial))
	manager.AddInjector(prio30, 30)
	manager.AddInjector(prio10, 10)
	manager.AddInjector(prio40, 40)
	assert.Equal(t, []Injector{prio10, prio30, prio40, initial}, manager.Injectors())

	manager.RemoveInjector(prio10)
	assert.Equal(t, []Injector{prio30, prio40, initial}, manager.Injectors())

	manager.ClearInjectors()
	assert.Equal(t, []Injector{}, manager.Injectors())
}

// TestManagerInheritedScope tests visibility of injectors in inherited scopes.
func TestManagerInheritedScope(t *testing.T) {
	outer := &testInjector{label: "outer"}
	inner := &testInjector{label: "inner"}
	manager := New(WithInjectors(outer))

	entered := []any(nil)
	manager.Events().Subscribe(ScopeEntered, func(depth int, isolated bool) {
		entered = append(entered, depth, isolated)
	})

	err := manager.WithInheritedScope(func() error {
		manager.AddInjector(inner, 1000)
		assert.Equal(t, 1, manager.ScopeDepth())
		assert.Equal(t, []Injector{inner, outer}, manager.Injectors())

		value, found, err := manager.GetDependency("", "outer")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "outer", value)

		// Clearing keeps injectors of the enclosing scope.
		manager.ClearInjectors()
		assert.Equal(t, []Injector{outer}, manager.Injectors())
		manager.AddInjector(inner)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, manager.ScopeDepth())
	assert.Equal(t, []Injector{outer}, manager.Injectors())
	assert.Equal(t, []any{1, false}, entered)

	_, found, err := manager.GetDependency("", "inner")
	require.NoError(t, err)
	assert.False(t, found)
}

// TestManagerIsolatedScope tests visibility of injectors in isolated scopes.
func TestManagerIsolatedScope(t *testing.T) {
	outer := &testInjector{label: "outer"}
	inner := &testInjector{label: "inner"}
	manager := New(WithInjectors(outer))

	err := manager.WithIsolatedScope(func() error {
		assert.Equal(t, []Injector{}, manager.Injectors())
		manager.AddInjector(inner)

		_, found, err := manager.GetDependency("", "outer")
		require.NoError(t, err)
		assert.False(t, found)

		// Nested scopes inherit from the isolated one.
		return manager.WithInheritedScope(func() error {
			assert.Equal(t, 2, manager.ScopeDepth())
			assert.Equal(t, []Injector{inner}, manager.Injectors())
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []Injector{outer}, manager.Injectors())
}

// TestManagerScopeCall tests calls using injectors of the current scope.
func TestManagerScopeCall(t *testing.T) {
	manager := New(WithInjectors(Values(Named("name", "outer"))))
	echo := Func(func(name string) string { return name }, Param("name"))

	value, err := InheritedScope(manager, func() (any, error) {
		manager.AddInjector(Values(Named("name", "inner")), 1)
		result, err := manager.Call(echo)
		if err != nil {
			return nil, err
		}
		return result.Values()[0], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "inner", value)

	_, err = IsolatedScope(manager, func() (InvokeResult, error) {
		return manager.Call(echo)
	})
	assert.ErrorIs(t, err, ErrUnresolvedArgument)

	result, err := manager.Call(echo)
	require.NoError(t, err)
	assert.Equal(t, []any{"outer"}, result.Values())
}

// TestManagerScopeFailure tests that scopes are left on errors and panics.
func TestManagerScopeFailure(t *testing.T) {
	errTest := errors.New("test")
	manager := New()

	exited := []int(nil)
	manager.Events().Subscribe(ScopeExited, func(depth int) {
		exited = append(exited, depth)
	})

	err := manager.WithInheritedScope(func() error {
		return manager.WithIsolatedScope(func() error {
			manager.AddInjector(&testInjector{label: "inner"})
			return errTest
		})
	})
	assert.ErrorIs(t, err, errTest)
	assert.Equal(t, 0, manager.ScopeDepth())
	assert.Equal(t, []int{1, 0}, exited)

	assert.Panics(t, func() {
		_ = manager.WithIsolatedScope(func() error {
			panic("boom")
		})
	})
	assert.Equal(t, 0, manager.ScopeDepth())
	assert.Equal(t, []Injector{}, manager.Injectors())

	value, err := InheritedScope(manager, func() (int, error) {
		return 1, errTest
	})
	assert.ErrorIs(t, err, errTest)
	assert.Equal(t, 1, value)
}
