package injection

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func testFunc(argument int, test string, flag bool) []any {
	return []any{argument, test, flag}
}

// TestManagerCall tests resolution policy of the called function.
func TestManagerCall(t *testing.T) {
	manager := New(WithInjectors(Values(Named("argument", 99), Named("test", "Here I am"))))
	result, err := manager.Call(Func(testFunc,
		Param("argument"),
		Param("test"),
		Param("flag", WithDefault(false)),
	))
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{99, "Here I am", false}}, result.Values())
	assert.NoError(t, result.Error())
}

// TestManagerCallByType tests resolution of arguments by declared type.
func TestManagerCallByType(t *testing.T) {
	manager := New()
	manager.AddInjector(Values(99, "Here I am", true))

	result, err := manager.Call(Func(testFunc, Param("a"), Param("b"), Param("c")))
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{99, "Here I am", true}}, result.Values())
}

// TestManagerCallClosure tests calls of closures.
func TestManagerCallClosure(t *testing.T) {
	manager := New()
	manager.AddInjector(NewCallback(func(typ, name string) any {
		if name == "value" {
			return 21
		}
		return nil
	}))

	called := false
	result, err := manager.Call(Func(func(value int, missing *testPlain) int {
		called = true
		assert.Nil(t, missing)
		return value * 2
	}, Param("value"), Param("missing", Nullable())))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []any{42}, result.Values())

	// Functions without parameters are called without arguments.
	result, err = manager.Call(Func(func() error { return errors.New("failed") }))
	require.NoError(t, err)
	assert.EqualError(t, result.Error(), "failed")
}

// TestManagerCallMethod tests calls of method values.
func TestManagerCallMethod(t *testing.T) {
	service := newTestService("Hello, ")
	manager := New(WithInjectors(Values(Named("name", "World"))))

	result, err := manager.Call(Method("testService", service.Greet, Param("name")))
	require.NoError(t, err)
	assert.Equal(t, []any{"Hello, World"}, result.Values())
}

// TestManagerCallConstructor tests construction of owner types.
func TestManagerCallConstructor(t *testing.T) {
	manager := New(WithInjectors(Values(Named("prefix", "Hi, "))))

	result, err := manager.Call(Constructor[*testService](newTestService, Param("prefix")))
	require.NoError(t, err)
	require.Len(t, result.Values(), 1)
	service, ok := result.Values()[0].(*testService)
	require.True(t, ok)
	assert.Equal(t, "Hi, you", service.Greet("you"))

	result, err = manager.Call(Constructor[*testService](newTestServiceE, Param("prefix", Untyped(), WithDefault(""))))
	require.NoError(t, err)
	assert.Equal(t, "Hi, ", result.Values()[0].(*testService).prefix)

	result, err = manager.Call(Constructor[*testService](nil))
	require.NoError(t, err)
	assert.Equal(t, []any{&testService{}}, result.Values())
}

// TestManagerCallRegistered tests calls of registered symbols.
func TestManagerCallRegistered(t *testing.T) {
	signatures := NewSignatureRegistry().Register("greet", Func(testGreet,
		Param("name"), Param("times", WithDefault(3))))
	manager := New(WithSignatureService(signatures), WithInjectors(Values("World")))
	assert.Same(t, signatures, manager.Signatures())

	result, err := manager.Call("greet")
	require.NoError(t, err)
	assert.Equal(t, []any{"World"}, result.Values())

	manager.SetSignatureService(NewSignatureRegistry())
	_, err = manager.Call("greet")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

// TestManagerCallInvalidSymbol tests calls of symbols without signature.
func TestManagerCallInvalidSymbol(t *testing.T) {
	manager := New()
	for _, symbol := range []any{"unknown", testGreet, 1, nil} {
		result, err := manager.Call(symbol)
		assert.ErrorIs(t, err, ErrInvalidSymbol)
		assert.Nil(t, result)
	}

	_, err := manager.Call(Func(testGreet))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

// absentSignatures reports every symbol as absent without an error.
type absentSignatures struct{}

func (absentSignatures) GetSignature(symbol any) (*Signature, error) {
	return nil, nil
}

// TestManagerCallAbsentSignature tests calls when the signature service finds no signature.
func TestManagerCallAbsentSignature(t *testing.T) {
	manager := New(WithSignatureService(absentSignatures{}))

	var result InvokeResult
	var err error
	require.NotPanics(t, func() {
		result, err = manager.Call("anything")
	})
	assert.ErrorIs(t, err, ErrInvalidSymbol)
	assert.Nil(t, result)
}

// TestManagerCallUnresolved tests calls with unresolved arguments.
func TestManagerCallUnresolved(t *testing.T) {
	logs := &bytes.Buffer{}
	manager := New(
		WithLogger(zerolog.New(logs)),
		WithInjectors(Values(1, 0.5), NewCallback(func(string, string) any { return nil })),
	)

	reported := []*UnresolvedArgumentError(nil)
	manager.Events().Subscribe(ArgumentUnresolved, func(err *UnresolvedArgumentError) {
		reported = append(reported, err)
	})

	called := false
	_, err := manager.Call(Func(func(hello string) { called = true }, Param("hello")))
	assert.False(t, called)
	assert.ErrorIs(t, err, ErrUnresolvedArgument)

	var unresolved *UnresolvedArgumentError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "hello", unresolved.Parameter.Name)
	assert.Equal(t, TypeString, unresolved.Parameter.Type)
	assert.Contains(t, err.Error(), `could not resolve dependency for argument "hello" (string)`)
	assert.Equal(t, []*UnresolvedArgumentError{unresolved}, reported)
	assert.Contains(t, logs.String(), "argument unresolved")
}

// TestManagerCallInjectorError tests that injector errors abort the call.
func TestManagerCallInjectorError(t *testing.T) {
	errTest := errors.New("test")
	fallback := Values(Named("value", 1))
	manager := New(WithInjectors(NewCallbackE(func(typ, name string) (any, error) {
		return nil, errTest
	}), fallback))

	_, err := manager.Call(Func(func(value any) {}, Param("value", Untyped())))
	assert.ErrorIs(t, err, errTest)

	manager = New(WithInjectors(NewPropertyInjector(&testProperties{})))
	_, _, err = manager.GetDependency("", "")
	assert.ErrorIs(t, err, ErrInvalidDependencyRequest)
}

// TestManagerCallArgumentType tests injected values of wrong Go types.
func TestManagerCallArgumentType(t *testing.T) {
	manager := New(WithInjectors(Values(Named("value", "text"))))

	_, err := manager.Call(Func(func(value int) {}, Param("value")))
	assert.ErrorIs(t, err, ErrArgumentType)

	// Numeric values are converted.
	manager = New(WithInjectors(Values(Named("value", 2))))
	result, err := manager.Call(Func(func(value float64) float64 { return value / 4 }, Param("value")))
	require.NoError(t, err)
	assert.Equal(t, []any{0.5}, result.Values())
}

// TestManagerCallPanic tests reporting of panics of the called function.
func TestManagerCallPanic(t *testing.T) {
	manager := New()
	reported := []any(nil)
	manager.Events().Subscribe(UnhandledPanic, func(recovered any, stack string) {
		reported = append(reported, recovered)
		assert.NotEmpty(t, stack)
	})

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = manager.Call(Func(func() { panic("boom") }))
	})
	assert.Equal(t, []any{"boom"}, reported)
}

// TestManagerCallTracing tests spans of calls.
func TestManagerCallTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	manager := New(WithTracerProvider(provider), WithInjectors(Values(1)))

	_, err := manager.CallContext(context.Background(), Func(func(a int) {}, Param("a")))
	require.NoError(t, err)
	_, err = manager.CallContext(context.Background(), Func(func(a string) {}, Param("a")))
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "injection.Call", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attribute.String("injection.origin", "function"))
	assert.Contains(t, spans[0].Attributes, attribute.Int("injection.params", 1))
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Contains(t, spans[1].Status.Description, `argument "a"`)
}

// TestManagerGetDependency tests direct resolution of dependencies.
func TestManagerGetDependency(t *testing.T) {
	manager := New()
	manager.AddInjector(Values(Named("port", 8080), "fallback"))
	manager.AddInjector(NewCallback(func(typ, name string) any {
		if typ == TypeString {
			return "preferred"
		}
		return nil
	}), 10)

	value, found, err := manager.GetDependency("string", "")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "preferred", value)

	port, err := Resolve[int64](manager, "port")
	require.NoError(t, err)
	assert.Equal(t, int64(8080), port)

	text, err := Resolve[string](manager, "")
	require.NoError(t, err)
	assert.Equal(t, "preferred", text)

	_, err = Resolve[*testService](manager, "service")
	assert.ErrorIs(t, err, ErrUnresolvedArgument)

	// Managers nest as injectors.
	outer := New(WithInjectors(manager))
	value, found, err = outer.GetDependency("int", "port")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 8080, value)
}
