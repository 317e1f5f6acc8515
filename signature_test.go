package injection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testService struct {
	prefix string
}

func newTestService(prefix string) *testService {
	return &testService{prefix: prefix}
}

func newTestServiceE(prefix string) (*testService, error) {
	if prefix == "" {
		return nil, errors.New("empty prefix")
	}
	return &testService{prefix: prefix}, nil
}

func (s *testService) Greet(name string) string {
	return s.prefix + name
}

func testGreet(name string, times int) string {
	return name
}

// TestSignatureFunc tests signatures of free functions.
func TestSignatureFunc(t *testing.T) {
	signature := Func(testGreet, Param("name"), Param("times", WithDefault(1)))
	assert.Equal(t, "testGreet", signature.Name())
	assert.Equal(t, "github.com/NVIDIA/injection", signature.Source())
	assert.Equal(t, OriginFunction, signature.Origin())
	assert.Equal(t, "", signature.Owner())

	require.NoError(t, signature.load())
	assert.Equal(t, []Parameter{
		{Name: "name", Type: TypeString},
		{Name: "times", Type: TypeInt, Optional: true, Default: 1},
	}, signature.Params())
}

// TestSignatureMethod tests signatures of method values.
func TestSignatureMethod(t *testing.T) {
	service := newTestService("Hello, ")
	signature := Method("testService", service.Greet, Param("name", Untyped()))
	assert.Equal(t, "testService.Greet", signature.Name())
	assert.Equal(t, OriginMethod, signature.Origin())
	assert.Equal(t, "testService", signature.Owner())

	require.NoError(t, signature.load())
	assert.Equal(t, "", signature.Params()[0].Type)
}

// TestSignatureConstructor tests signatures of constructors.
func TestSignatureConstructor(t *testing.T) {
	signature := Constructor[*testService](newTestService, Param("prefix"))
	assert.Equal(t, "Constructor[injection.testService]", signature.Name())
	assert.Equal(t, OriginConstructor, signature.Origin())
	assert.Equal(t, "injection.testService", signature.Owner())
	require.NoError(t, signature.load())

	require.NoError(t, Constructor[*testService](newTestServiceE, Param("prefix")).load())

	signature = Constructor[*testService](nil)
	assert.Equal(t, "github.com/NVIDIA/injection", signature.Source())
	require.NoError(t, signature.load())
}

// TestSignatureValidate tests validation of invalid signatures.
func TestSignatureValidate(t *testing.T) {
	tests := []struct {
		name      string
		signature *Signature
		message   string
	}{
		{"nil func", Func(nil), "no func specified"},
		{"not a func", Func(1), "not a function: int"},
		{"nil typed func", Func((func())(nil)), "nil function"},
		{"variadic", Func(func(args ...int) {}, Param("args")), "variadic function"},
		{"arity", Func(testGreet, Param("name")), "accepts 2 params, 1 declared"},
		{"unnamed", Func(testGreet, Param("name"), Param("")), "param 1 has no name"},
		{"constructor result", Constructor[*testService](testGreet, Param("name"), Param("times")), "does not return"},
		{"constructor outputs", Constructor[*testService](func() {}), "must return"},
		{"constructor params", Constructor[*testService](nil, Param("x")), "declares 1 params"},
		{"constructor interface", Constructor[error](nil), "can not construct interface"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.signature.load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

// TestSignatureRegistry tests resolution of symbols to signatures.
func TestSignatureRegistry(t *testing.T) {
	signature := Func(testGreet, Param("name"), Param("times"))
	registry := NewSignatureRegistry().Register("greet", signature)

	result, err := registry.GetSignature(signature)
	require.NoError(t, err)
	assert.Same(t, signature, result)

	result, err = registry.GetSignature("greet")
	require.NoError(t, err)
	assert.Same(t, signature, result)

	result, err = registry.GetSignature(testDescriber{signature: signature})
	require.NoError(t, err)
	assert.Same(t, signature, result)

	_, err = registry.GetSignature("unknown")
	assert.ErrorIs(t, err, ErrInvalidSymbol)

	_, err = registry.GetSignature(testGreet)
	assert.ErrorIs(t, err, ErrInvalidSymbol)
	assert.EqualError(t, err, "invalid symbol: can not resolve any callable from func(string, int) string")

	_, err = registry.GetSignature(Func(testGreet))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

type testDescriber struct {
	signature *Signature
}

func (d testDescriber) Signature() *Signature { return d.signature }

// TestSplitFuncName tests splitting of function names.
func TestSplitFuncName(t *testing.T) {
	tests := []struct {
		fullName string
		pkg      string
		name     string
	}{
		{"main.main", "main", "main"},
		{"main.(*Service).Run", "main", "(*Service).Run"},
		{"github.com/NVIDIA/injection.testGreet", "github.com/NVIDIA/injection", "testGreet"},
		{"github.com/NVIDIA/injection.TestSignature.func1", "github.com/NVIDIA/injection", "TestSignature.func1"},
		{"name", "", "name"},
	}
	for _, tt := range tests {
		pkg, name := splitFuncName(tt.fullName)
		assert.Equal(t, tt.pkg, pkg, tt.fullName)
		assert.Equal(t, tt.name, name, tt.fullName)
	}
}
