package extractor

// decisionWords are the keyword decision points counted toward cyclomatic
// complexity. "else if" contributes through its "if"; "else" alone is not a
// decision.
var decisionWords = []string{"if", "for", "foreach", "while", "case", "catch"}

// analyzeBody computes the cyclomatic complexity of a method body given as
// stripped text, and reports whether the body contains a catch clause plus
// a rough statement count (used by the triviality check in debt analysis).
//
// Complexity is 1 + the number of decision tokens: branching keywords,
// short-circuit operators and ternary conditionals.
func analyzeBody(body []byte) (complexity int, hasCatch bool, statements int) {
	complexity = 1

	for i := 0; i < len(body); i++ {
		c := body[i]

		if isIdentStart(c) && (i == 0 || !isIdentPart(body[i-1])) {
			for _, word := range decisionWords {
				if wordAt(body, i, word) {
					complexity++
					if word == "catch" {
						hasCatch = true
					}
					i += len(word) - 1
					break
				}
			}
			continue
		}

		switch c {
		case ';':
			statements++
		case '&':
			if i+1 < len(body) && body[i+1] == '&' {
				complexity++
				i++
			}
		case '|':
			if i+1 < len(body) && body[i+1] == '|' {
				complexity++
				i++
			}
		case '?':
			// Ternary only: null-coalescing "??", null-conditional "?." and
			// nullable type suffixes ("int? x") are not decision points. A
			// ternary condition operator is written standalone between
			// spaces.
			if i > 0 && i+1 < len(body) && body[i-1] == ' ' && body[i+1] == ' ' {
				complexity++
			} else if i+1 < len(body) && (body[i+1] == '?' || body[i+1] == '.') {
				i++
			}
		}
	}

	return complexity, hasCatch, statements
}
