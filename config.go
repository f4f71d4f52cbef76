package dynamizer

import (
	"fmt"
	"unicode"
)

const (
	DefaultPrefix        = "x_"     // identifier prefix of the functions to dynamize
	DefaultVersion       = "Static" // version identifier selecting the static branch
	DefaultIndent        = "\t"     // one level of indentation in generated blocks
	DefaultPointerPrefix = "fp_"    // prefix of the generated function pointer aliases
)

// Config holds the settings of one run. It is a value type: the With methods return modified copies.
type Config struct {
	Prefix        string // literal prefix of function names, may be empty to match every declaration
	Version       string // conditional compilation identifier of the static branch
	Indent        string // indent unit used inside generated blocks
	PointerPrefix string // prefix of the function pointer alias of each dynamized function
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Prefix:        DefaultPrefix,
		Version:       DefaultVersion,
		Indent:        DefaultIndent,
		PointerPrefix: DefaultPointerPrefix,
	}
}

// WithPrefix returns a copy of c searching for functions named with prefix p.
func (c Config) WithPrefix(p string) Config {
	c.Prefix = p
	return c
}

// WithVersion returns a copy of c using v as the static version identifier.
//
// An invalid identifier is rejected with ErrInvalidIdentifier and c is returned unchanged,
// so callers may report the error and carry on with the previous value.
func (c Config) WithVersion(v string) (Config, error) {
	if !IsIdentifier(v) {
		return c, fmt.Errorf("%w: version string %q", ErrInvalidIdentifier, v)
	}
	c.Version = v
	return c, nil
}

// Validate checks the identifiers that end up in generated code.
func (c Config) Validate() error {
	if !IsIdentifier(c.Version) {
		return fmt.Errorf("%w: version string %q", ErrInvalidIdentifier, c.Version)
	}
	if !IsIdentifier(c.PointerPrefix) {
		return fmt.Errorf("%w: pointer prefix %q", ErrInvalidIdentifier, c.PointerPrefix)
	}
	return nil
}

// IsIdentifier reports whether s is a letter or underscore followed by letters, digits or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
