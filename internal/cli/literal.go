package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/NVIDIA/injection"
)

// errInvalidLiteral is returned for malformed value and query flags.
var errInvalidLiteral = errors.New("invalid literal")

// parseValue parses a `[name=]kind:literal` flag into a value bag argument.
//
// Kinds are string, int, float, bool and null; the literal of null is ignored.
// Values without a name are positional.
func parseValue(flag string) (any, error) {
	name := ""
	rest := flag
	if index := strings.IndexByte(flag, '='); index >= 0 && !strings.Contains(flag[:index], ":") {
		name, rest = flag[:index], flag[index+1:]
	}

	kind, literal, ok := strings.Cut(rest, ":")
	if !ok && kind != injection.TypeNull {
		return nil, fmt.Errorf("%w: expected [name=]kind:literal, got %q", errInvalidLiteral, flag)
	}

	value, err := convertLiteral(kind, literal)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", errInvalidLiteral, flag, err)
	}
	if name != "" {
		return injection.Named(name, value), nil
	}
	return value, nil
}

// convertLiteral converts the literal to the value of the kind.
func convertLiteral(kind, literal string) (any, error) {
	switch injection.CanonicalType(kind) {
	case injection.TypeString:
		return literal, nil
	case injection.TypeInt:
		return cast.ToIntE(literal)
	case injection.TypeFloat:
		return cast.ToFloat64E(literal)
	case injection.TypeBool:
		return cast.ToBoolE(literal)
	case injection.TypeNull:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported kind %q", kind)
	}
}

// query is a dependency request parsed from a `type[:name]` flag.
type query struct {
	typ  string
	name string
}

// parseQuery parses a `type[:name]` flag. Either part may be empty.
func parseQuery(flag string) (query, error) {
	typ, name, _ := strings.Cut(flag, ":")
	if typ == "" && name == "" {
		return query{}, fmt.Errorf("%w: empty query", errInvalidLiteral)
	}
	return query{typ: typ, name: name}, nil
}
