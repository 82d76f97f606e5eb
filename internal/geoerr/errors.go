package geoerr

import (
	"errors"
	"fmt"
)

// Kind classifies a node-local failure of the geolocation pipeline
type Kind int

const (
	DocumentNotFound Kind = iota + 1
	DocumentOpenError
	TargetNotFound
	AttributeMissing
	CRSParseError
	TransformerBuildError
	TransformError
	ReferenceSyntaxError
)

func (k Kind) String() string {
	switch k {
	case DocumentNotFound:
		return "DocumentNotFound"
	case DocumentOpenError:
		return "DocumentOpenError"
	case TargetNotFound:
		return "TargetNotFound"
	case AttributeMissing:
		return "AttributeMissing"
	case CRSParseError:
		return "CRSParseError"
	case TransformerBuildError:
		return "TransformerBuildError"
	case TransformError:
		return "TransformError"
	case ReferenceSyntaxError:
		return "ReferenceSyntaxError"
	}
	return "Unknown"
}

// Error is a classified failure. Subject names what failed (a file, a prim path, a pointer).
type Error struct {
	Kind    Kind
	Subject string
	Err     error
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Kind, e.Subject, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Builds a new classified error with a formatted message
func New(kind Kind, subject string, format string, args ...interface{}) error {
	return &Error{Kind: kind, Subject: subject, Err: fmt.Errorf(format, args...)}
}

// Wraps err into a classified error. A nil err yields nil.
func Wrap(kind Kind, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Subject: subject, Err: err}
}

// KindOf returns the kind of the outermost classified error in err's chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
