package ferrors

// Error codes, one per §7 error subkind. Grouped by stage prefix so a code
// alone identifies where in the pipeline it originates.
const (
	// Parser (§7 ParseError): single-line diagnostics carrying file position.
	CodeParseSyntax = "PAR001" // generic syntax error near a token
	CodeParseEOF    = "PAR002" // unexpected end of input

	// Modeller (§7 ModelError subkinds).
	CodeUnknownIdentifier      = "MOD001"
	CodeTypeMismatch           = "MOD002"
	CodeArityMismatch          = "MOD003"
	CodeBadAtomicBlock         = "MOD004"
	CodeDuplicateName          = "MOD005"
	CodeConstraintScopeViolate = "MOD006"
	CodeUnknownPrototype       = "MOD007"

	// Grapher (§7 GraphError): should be unreachable from valid Modeller
	// output; any occurrence is a bug, not a user error (spec.md §4.7).
	CodeMalformedBody = "GRF001"
)
