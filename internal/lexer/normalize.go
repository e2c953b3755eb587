package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize strips a UTF-8 BOM and applies Unicode NFC normalisation so
// that lexically-equivalent source encoded differently (e.g. a predicate
// name written in NFD vs NFC) tokenizes to the same identifier string —
// view-predicate and variable names are compared by string identity
// throughout the Modeller and View Algebra (spec.md §5, §9).
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
