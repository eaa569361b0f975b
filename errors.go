package textimport

import "errors"

// Sentinel errors returned by the session and its collaborators
var (
	// ErrNotReadable indicates the session has no built schema yet
	ErrNotReadable = errors.New("textimport: schema not built")

	// ErrInvalidRowLimit indicates a nonsensical row-limit policy value
	ErrInvalidRowLimit = errors.New("textimport: invalid row limit")

	// ErrInvalidSyntax indicates command text that ParseSyntax cannot read
	ErrInvalidSyntax = errors.New("textimport: invalid GET DATA syntax")

	// ErrEmptySchema indicates a schema with no variables
	ErrEmptySchema = errors.New("textimport: schema has no variables")
)
