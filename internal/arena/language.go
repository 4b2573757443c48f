package arena

import (
	"errors"
	"fmt"
	"strings"
)

// Language identifies one of the two competing languages.
type Language string

const (
	Python     Language = "python"
	TypeScript Language = "typescript"
)

var (
	// ErrInvalidLanguage is returned for any language outside the two-value enum.
	ErrInvalidLanguage = errors.New("arena: invalid language")
	// ErrSameLanguage is returned when a conversion round is asked to convert
	// a language to itself.
	ErrSameLanguage = errors.New("arena: source and target language are equal")
	// ErrIncompleteSession is returned when evaluation is requested but one
	// side produced no implementation.
	ErrIncompleteSession = errors.New("arena: session is missing an implementation for one language")
)

// ParseLanguage normalizes user input into a Language.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "python", "py":
		return Python, nil
	case "typescript", "ts":
		return TypeScript, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, s)
	}
}

// Valid reports whether l is one of the two enum values.
func (l Language) Valid() bool {
	return l == Python || l == TypeScript
}

// Other returns the opposing language.
func (l Language) Other() Language {
	if l == Python {
		return TypeScript
	}
	return Python
}

// Ext returns the source file extension without the leading dot.
func (l Language) Ext() string {
	if l == Python {
		return "py"
	}
	return "ts"
}

// Title returns the conventional display name.
func (l Language) Title() string {
	if l == Python {
		return "Python"
	}
	return "TypeScript"
}

func (l Language) String() string { return string(l) }
