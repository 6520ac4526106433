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
	semErrNoStartSymbol      = newSemanticError("a grammar needs a start symbol")
	semErrEmptySymbol        = newSemanticError("a rule refers to a symbol with an empty name")
	semErrEmptyToken         = newSemanticError("a terminal rule needs a non-empty token")
	semErrNotCNF             = newSemanticError("an alternative must be a literal, a non-terminal, or a pair of non-terminals")
	semErrUndefinedStartSym  = newSemanticError("the start symbol must be a non-terminal defined by a production")
	semErrDirInvalidName     = newSemanticError("invalid directive name")
	semErrDirInvalidParam    = newSemanticError("invalid parameter")
	semErrDuplicateDir       = newSemanticError("a directive must not be duplicated")
	semErrInvalidLexKindName = newSemanticError("a lexical kind name can contain only the lower-case letters, the digits, and the underscore, and must begin with a letter")
	semErrReservedKindName   = newSemanticError("the lexical kind name is reserved")
	semErrDuplicateLexKind   = newSemanticError("duplicate lexical kind")
	semErrDuplicateName      = newSemanticError("duplicate names are not allowed between lexical kinds and non-terminals")
	semErrSkippedKindInRule  = newSemanticError("a skipped lexical kind cannot be used in rules")
	semErrTokenCollision     = newSemanticError("a literal must not be spelled the same as a lexical kind")
)
