package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoRule           = newSemanticError("a grammar needs at least one rule")
	semErrUndeclaredSymbol = newSemanticError("undeclared symbol")
	semErrDuplicateID      = newSemanticError("duplicate identifier")
	semErrInvalidIdent     = newSemanticError("invalid identifier")
	semErrMisplacedEpsilon = newSemanticError("the empty-production marker must be the only RHS element")
	semErrNoPrecedence     = newSemanticError("a precedence terminal needs a declared precedence")
	semErrUnreachableStart = newSemanticError("the start symbol is not derivable by any rule")
	semErrAmbiguousGrammar = newSemanticError("the grammar is ambiguous")
	semErrSentinelOverflow = newSemanticError("state or rule count collides with the sentinel value range")
)
