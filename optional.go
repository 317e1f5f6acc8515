package injection

// Parameter declares a formal parameter of a signature.
//
// A parameter is resolved by injection, else falls back to its default
// value when optional, else to nil when nullable, else the call fails.
type Parameter struct {
	// Name of the parameter.
	Name string

	// Declared type, empty for untyped parameters.
	Type string

	// Optional parameters fall back to Default.
	Optional bool

	// Default value, only for optional parameters.
	Default any

	// Nullable parameters fall back to nil.
	Nullable bool

	// Untyped keeps Type empty instead of deriving it.
	untyped bool
}

// ParamOpt configures a parameter declaration.
type ParamOpt func(*Parameter)

// Param declares a parameter by name.
//
// Example:
//
//	injection.Param("flag", injection.WithDefault(false))
func Param(name string, opts ...ParamOpt) Parameter {
	param := Parameter{Name: name}
	for _, opt := range opts {
		opt(&param)
	}
	return param
}

// WithType sets the declared type, e.g. a category or a hierarchy name.
func WithType(typ string) ParamOpt {
	return func(param *Parameter) {
		param.Type = typ
		param.untyped = typ == ""
	}
}

// Untyped declares the parameter without type; it is resolved by name only.
func Untyped() ParamOpt {
	return WithType("")
}

// WithDefault makes the parameter optional with the default value.
func WithDefault(value any) ParamOpt {
	return func(param *Parameter) {
		param.Optional = true
		param.Default = value
	}
}

// Nullable allows the parameter to receive nil.
func Nullable() ParamOpt {
	return func(param *Parameter) {
		param.Nullable = true
	}
}
