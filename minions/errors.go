package minions

import "github.com/pkg/errors"

// ErrorKind tags the failure kinds spec §7 names. The kind, not a Go type
// hierarchy, is how callers (the UMI shell) decide how to report a failure.
type ErrorKind uint8

const (
	KindParse ErrorKind = iota
	KindIllegalAction
	KindInsufficientMoney
	KindSolverTimeout
	KindSolverUnsat
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindIllegalAction:
		return "IllegalAction"
	case KindInsufficientMoney:
		return "InsufficientMoney"
	case KindSolverTimeout:
		return "SolverTimeout"
	case KindSolverUnsat:
		return "SolverUnsat"
	}
	return "UnknownError"
}

// RuleError wraps a failure kind with an explanation, per spec §7.
type RuleError struct {
	Kind ErrorKind
	Why  string
}

func (e *RuleError) Error() string {
	return e.Kind.String() + ": " + e.Why
}

// ParseError builds a KindParse RuleError, for callers outside the package
// (the protocol package's FEN/UMI line parsing) that need the same error
// kind the kernel itself uses.
func ParseError(why string) error {
	return errors.WithStack(&RuleError{Kind: KindParse, Why: why})
}

func illegal(why string) error {
	return errors.WithStack(&RuleError{Kind: KindIllegalAction, Why: why})
}

func insufficientMoney(why string) error {
	return errors.WithStack(&RuleError{Kind: KindInsufficientMoney, Why: why})
}

// AsRuleError unwraps err to a *RuleError, if any wraps one.
func AsRuleError(err error) (*RuleError, bool) {
	var re *RuleError
	ok := errors.As(err, &re)
	return re, ok
}
