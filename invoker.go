package injection

import (
	"fmt"
	"reflect"
)

// InvokeResult provides access to the invocation result.
type InvokeResult interface {
	// Values returns a slice of function result values.
	// Constructors return the constructed instance first.
	Values() []any

	// Error returns function result error, if any.
	Error() error
}

// invokeResult implements corresponding interface.
type invokeResult struct {
	values []any
	err    error
}

// Values implements corresponding interface method.
func (r *invokeResult) Values() []any {
	return r.values
}

// Error implements corresponding interface method.
func (r *invokeResult) Error() error {
	return r.err
}

// invoke calls the signature callable with resolved arguments.
func (s *Signature) invoke(args []any) (*invokeResult, error) {
	// Zero-argument construction.
	if s.fn == nil {
		var instance reflect.Value
		if s.ownerType.Kind() == reflect.Ptr {
			instance = reflect.New(s.ownerType.Elem())
		} else {
			instance = reflect.New(s.ownerType).Elem()
		}
		return &invokeResult{values: []any{instance.Interface()}}, nil
	}

	// Convert resolved arguments to the function input types.
	inValues := make([]reflect.Value, 0, len(args))
	for index, arg := range args {
		inValue, err := convertArgument(arg, s.fnType.In(index))
		if err != nil {
			return nil, fmt.Errorf("argument '%s': %w", s.params[index].Name, err)
		}
		inValues = append(inValues, inValue)
	}

	// Convert function results.
	outValues := s.fnValue.Call(inValues)
	result := &invokeResult{
		values: make([]any, 0, len(outValues)),
		err:    nil,
	}
	for index, outValue := range outValues {
		// The last value of the error type is the function error.
		if index == len(outValues)-1 && outValue.Type() == errorType {
			// Ignore failed cast of nil error.
			result.err, _ = outValue.Interface().(error)
		}

		// Add value to the results slice.
		result.values = append(result.values, outValue.Interface())
	}

	return result, nil
}

// convertArgument converts the value to the parameter type.
//
// Nil becomes the zero value, assignable values are passed as is and
// numeric values are converted between numeric types.
func convertArgument(value any, typ reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(typ), nil
	}

	argValue := reflect.ValueOf(value)
	argType := argValue.Type()
	switch {
	case argType.AssignableTo(typ):
		return argValue, nil
	case isNumericType(argType) && isNumericType(typ) && argType.ConvertibleTo(typ):
		return argValue.Convert(typ), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: '%s' could not receive type '%s'",
			ErrArgumentType, typ, argType)
	}
}

// isNumericType returns true for integer and float kinds.
func isNumericType(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
