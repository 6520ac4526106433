package parser

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return e.message
}

var (
	// lexical errors
	synErrUnclosedLiteral   = newSyntaxError("unclosed literal")
	synErrUnclosedPattern   = newSyntaxError("unclosed pattern")
	synErrIncompletedEscSeq = newSyntaxError("incompleted escape sequence; unexpected EOF following a backslash")
	synErrEmptyLiteral      = newSyntaxError("a literal must include at least one character")
	synErrEmptyPattern      = newSyntaxError("a pattern must include at least one character")

	// syntax errors
	synErrInvalidToken           = newSyntaxError("invalid token")
	synErrNoProduction           = newSyntaxError("a grammar must have at least one production")
	synErrTopLevelDirNoSemicolon = newSyntaxError("a top-level directive must be followed by ;")
	synErrNoProductionName       = newSyntaxError("a production name is missing")
	synErrNoColon                = newSyntaxError("the colon must precede alternatives")
	synErrNoSemicolon            = newSyntaxError("the semicolon is missing at the last of an alternative")
	synErrNoDirectiveName        = newSyntaxError("a directive needs a name")
	synErrPatternInAlt           = newSyntaxError("a pattern can appear only as the single alternative of a lexical production")
)
