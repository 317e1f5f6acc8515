package injection

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// GetDependency implements Injector interface.
//
// Injectors of the current scope are consulted in lookup order, the first
// found value wins. An injector error aborts the lookup.
func (m *Manager) GetDependency(typ, name string) (any, bool, error) {
	for _, injector := range m.Injectors() {
		value, found, err := injector.GetDependency(typ, name)
		if err != nil {
			return nil, false, fmt.Errorf("failed to get dependency from %T: %w", injector, err)
		}
		if found {
			return value, true, nil
		}
	}
	return nil, false, nil
}

// Resolve returns the dependency of type T and the optional name.
//
// Example:
//
//	port, err := injection.Resolve[int](manager, "port")
func Resolve[T any](injector Injector, name string) (T, error) {
	var result T
	typ := reflect.TypeOf((*T)(nil)).Elem()
	declared := declaredTypeOf(typ)

	value, found, err := injector.GetDependency(declared, name)
	if err != nil {
		return result, fmt.Errorf("failed to resolve %s: %w", typ, err)
	}
	if !found {
		return result, &UnresolvedArgumentError{
			Parameter: Parameter{Name: name, Type: declared},
		}
	}

	converted, err := convertArgument(value, typ)
	if err != nil {
		return result, fmt.Errorf("failed to resolve %s: %w", typ, err)
	}
	reflect.ValueOf(&result).Elem().Set(converted)
	return result, nil
}

// Call resolves the arguments of the symbol and invokes it.
// See CallContext.
func (m *Manager) Call(symbol any) (InvokeResult, error) {
	return m.CallContext(context.Background(), symbol)
}

// CallContext resolves the arguments of the symbol and invokes it.
//
// The symbol is any value accepted by the signature service: a *Signature,
// a Describer or a registered name. The returned error reports failures
// to resolve or invoke; the error returned by the callable itself is
// available from InvokeResult.Error.
func (m *Manager) CallContext(ctx context.Context, symbol any) (_ InvokeResult, err error) {
	_, span := m.tracer.Start(ctx, "injection.Call")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	signature, err := m.signatures.GetSignature(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get signature: %w", err)
	}
	if signature == nil {
		return nil, fmt.Errorf("failed to get signature: %w: no signature for %T", ErrInvalidSymbol, symbol)
	}
	if err := signature.load(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSignature, signature.name, err)
	}
	span.SetAttributes(
		attribute.String("injection.symbol", signature.name),
		attribute.String("injection.origin", signature.origin.String()),
		attribute.Int("injection.params", len(signature.params)),
	)

	args, err := m.resolveArguments(signature)
	if err != nil {
		return nil, err
	}

	result, err := m.invoke(signature, args)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", signature.name, err)
	}
	return result, nil
}

// resolveArguments resolves the parameters of the signature in order.
func (m *Manager) resolveArguments(signature *Signature) ([]any, error) {
	args := make([]any, 0, len(signature.params))
	for _, param := range signature.params {
		arg, err := m.resolveArgument(signature, param)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// resolveArgument injects the parameter, else falls back to its default
// value when optional, else to nil when nullable.
func (m *Manager) resolveArgument(signature *Signature, param Parameter) (any, error) {
	value, found, err := m.GetDependency(param.Type, param.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve argument '%s' of %s: %w", param.Name, signature.name, err)
	}

	logEvent := m.logger.Debug().
		Str("symbol", signature.name).
		Str("argument", param.Name).
		Str("type", param.Type)

	switch {
	case found:
		logEvent.Msg("argument injected")
		return value, nil
	case param.Optional:
		logEvent.Msg("argument defaulted")
		return param.Default, nil
	case param.Nullable:
		logEvent.Msg("argument nulled")
		return nil, nil
	}

	unresolved := &UnresolvedArgumentError{
		Symbol:    signature.name,
		Parameter: param,
	}
	m.logger.Error().Err(unresolved).Str("symbol", signature.name).Msg("argument unresolved")
	if err := triggerEvent(m.events, ArgumentUnresolved, unresolved); err != nil {
		m.logger.Error().Err(err).Msg("failed to trigger argument unresolved event")
	}
	return nil, unresolved
}

// invoke calls the signature and reports panics before propagating them.
func (m *Manager) invoke(signature *Signature, args []any) (_ *invokeResult, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			stack := string(debug.Stack())
			m.logger.Error().
				Str("symbol", signature.name).
				Interface("panic", recovered).
				Str("stack", stack).
				Msg("unhandled panic")
			if err := triggerEvent(m.events, UnhandledPanic, recovered, stack); err != nil {
				m.logger.Error().Err(err).Msg("failed to trigger unhandled panic event")
			}
			panic(recovered)
		}
	}()

	return signature.invoke(args)
}
