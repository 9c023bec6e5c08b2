// Package extractor turns raw source text into ClassModels without a full
// grammar: a stripping lexer first blanks comment and literal contents so
// that a brace-depth state machine can scope classes and members reliably.
package extractor

// lexState tracks what region of the source the stripper is inside.
type lexState int

const (
	stateCode lexState = iota
	stateLineComment
	stateBlockComment
	stateString
	stateVerbatimString
	stateChar
)

// stripCommentsAndStrings returns a copy of src with the contents of
// comments and string/char literals replaced by spaces. The output has the
// same length and the same newline positions as the input, so every byte
// offset in the stripped text is valid in the original. The surrounding
// quote characters are kept as markers; everything between them is blanked,
// which is what keeps a literal containing "{" from corrupting brace-depth
// scope tracking.
func stripCommentsAndStrings(src []byte) []byte {
	out := make([]byte, len(src))
	state := stateCode

	for i := 0; i < len(src); i++ {
		c := src[i]
		var next byte
		if i+1 < len(src) {
			next = src[i+1]
		}

		switch state {
		case stateCode:
			switch {
			case c == '/' && next == '/':
				state = stateLineComment
				out[i] = ' '
			case c == '/' && next == '*':
				state = stateBlockComment
				out[i] = ' '
			case c == '"':
				state = stateString
				out[i] = '"'
			case c == '@' && next == '"':
				state = stateVerbatimString
				out[i] = ' '
				out[i+1] = '"'
				i++
			case c == '$' && next == '"':
				// Interpolated strings are blanked whole, including their
				// brace pairs; treating the holes as code would reintroduce
				// literal-dependent depth tracking.
				state = stateString
				out[i] = ' '
				out[i+1] = '"'
				i++
			case c == '\'':
				state = stateChar
				out[i] = '\''
			default:
				out[i] = c
			}

		case stateLineComment:
			if c == '\n' {
				state = stateCode
				out[i] = '\n'
			} else {
				out[i] = ' '
			}

		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateCode
				out[i] = ' '
				out[i+1] = ' '
				i++
			} else if c == '\n' {
				out[i] = '\n'
			} else {
				out[i] = ' '
			}

		case stateString:
			switch {
			case c == '\\' && i+1 < len(src):
				out[i] = ' '
				out[i+1] = ' '
				i++
			case c == '"':
				state = stateCode
				out[i] = '"'
			case c == '\n':
				// Unterminated plain string; recover at end of line.
				state = stateCode
				out[i] = '\n'
			default:
				out[i] = ' '
			}

		case stateVerbatimString:
			switch {
			case c == '"' && next == '"':
				out[i] = ' '
				out[i+1] = ' '
				i++
			case c == '"':
				state = stateCode
				out[i] = '"'
			case c == '\n':
				out[i] = '\n'
			default:
				out[i] = ' '
			}

		case stateChar:
			switch {
			case c == '\\' && i+1 < len(src):
				out[i] = ' '
				out[i+1] = ' '
				i++
			case c == '\'':
				state = stateCode
				out[i] = '\''
			case c == '\n':
				state = stateCode
				out[i] = '\n'
			default:
				out[i] = ' '
			}
		}
	}

	return out
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// wordAt reports whether the identifier word starts at offset i, i.e. the
// preceding byte is not part of an identifier.
func wordAt(text []byte, i int, word string) bool {
	if i+len(word) > len(text) {
		return false
	}
	if string(text[i:i+len(word)]) != word {
		return false
	}
	if i > 0 && isIdentPart(text[i-1]) {
		return false
	}
	if i+len(word) < len(text) && isIdentPart(text[i+len(word)]) {
		return false
	}
	return true
}

// nextIdent returns the first identifier at or after offset i, with the
// offset just past it.
func nextIdent(text []byte, i int) (string, int) {
	for i < len(text) && !isIdentStart(text[i]) {
		i++
	}
	start := i
	for i < len(text) && isIdentPart(text[i]) {
		i++
	}
	return string(text[start:i]), i
}

// matchBrace returns the offset of the '}' closing the '{' at open, or -1
// when the braces are unbalanced. The text must already be stripped.
func matchBrace(text []byte, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// lineOf returns the 1-based line number of offset i.
func lineOf(text []byte, i int) int {
	line := 1
	for j := 0; j < i && j < len(text); j++ {
		if text[j] == '\n' {
			line++
		}
	}
	return line
}
