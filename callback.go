package injection

// CallbackFunc resolves a dependency by declared type and name.
// A nil result means the dependency was not found.
type CallbackFunc func(typ, name string) any

// CallbackInjector delegates resolution to a function.
type CallbackInjector struct {
	fn func(typ, name string) (any, error)
}

// NewCallback creates an injector calling fn for every request.
//
// Example:
//
//	injection.NewCallback(func(typ, name string) any {
//	    if name == "argument" {
//	        return 99
//	    }
//	    return nil
//	})
func NewCallback(fn CallbackFunc) *CallbackInjector {
	return &CallbackInjector{fn: func(typ, name string) (any, error) {
		return fn(typ, name), nil
	}}
}

// NewCallbackE creates an injector calling fn for every request.
// Errors returned by fn abort the resolution.
func NewCallbackE(fn func(typ, name string) (any, error)) *CallbackInjector {
	return &CallbackInjector{fn: fn}
}

// GetDependency implements Injector interface.
func (c *CallbackInjector) GetDependency(typ, name string) (any, bool, error) {
	value, err := c.fn(typ, name)
	if err != nil {
		return nil, false, err
	}
	if isNilValue(value) {
		return nil, false, nil
	}
	return value, true, nil
}
