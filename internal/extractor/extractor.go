package extractor

import (
	"strings"

	archerrors "github.com/archlens/archlens/internal/errors"
	"github.com/archlens/archlens/internal/types"
)

// visibility keywords open a member declaration; anything else directly
// inside a class body (attributes, nested blocks) is skipped.
var visibilityKeywords = map[string]types.Visibility{
	"public":    types.VisibilityPublic,
	"protected": types.VisibilityProtected,
	"internal":  types.VisibilityInternal,
	"private":   types.VisibilityPrivate,
}

var modifierKeywords = map[string]bool{
	"static":   true,
	"async":    true,
	"override": true,
	"virtual":  true,
	"abstract": true,
	"sealed":   true,
	"readonly": true,
	"partial":  true,
	"new":      true,
	"extern":   true,
	"unsafe":   true,
	"const":    true,
	"required": true,
}

type classSpan struct {
	kind      types.ClassKind
	name      string
	baseTypes []string
	declStart int
	bodyOpen  int
	bodyClose int
}

// ExtractFile converts one source file into its ClassModels. A structural
// failure (unbalanced braces after stripping) returns a ParseWarning; the
// caller skips the file and records the warning on the report.
func ExtractFile(file *types.SourceFile) ([]types.ClassModel, error) {
	stripped := stripCommentsAndStrings(file.Content)

	if err := checkBalance(stripped, file.Path); err != nil {
		return nil, err
	}

	imports := collectUsings(stripped)
	namespace := firstNamespace(stripped)
	spans := findClassSpans(stripped)

	classes := make([]types.ClassModel, 0, len(spans))
	for _, span := range spans {
		model := types.ClassModel{
			Name:       span.name,
			Kind:       span.kind,
			File:       file.Path,
			Namespace:  namespace,
			BaseTypes:  span.baseTypes,
			Imports:    imports,
			Methods:    []types.MethodModel{},
			Properties: []types.PropertyModel{},
		}
		extractMembers(stripped, span, spans, &model)
		classes = append(classes, model)
	}

	return classes, nil
}

// checkBalance verifies that braces pair up once literals are stripped.
func checkBalance(stripped []byte, path string) error {
	depth := 0
	for i := 0; i < len(stripped); i++ {
		switch stripped[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return archerrors.NewParseWarning(path, lineOf(stripped, i), "unbalanced braces: unexpected '}'")
			}
		}
	}
	if depth != 0 {
		return archerrors.NewParseWarning(path, 0, "unbalanced braces: missing '}'")
	}
	return nil
}

// collectUsings gathers using/import directives. Alias directives record
// the aliased namespace; using-statements (with parentheses) are ignored.
func collectUsings(stripped []byte) []string {
	var out []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(string(stripped), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "using ") || !strings.HasSuffix(trimmed, ";") {
			continue
		}
		target := strings.TrimSuffix(strings.TrimPrefix(trimmed, "using "), ";")
		target = strings.TrimPrefix(target, "static ")
		if strings.Contains(target, "(") {
			continue
		}
		if eq := strings.Index(target, "="); eq != -1 {
			target = target[eq+1:]
		}
		target = strings.TrimSpace(target)
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		out = append(out, target)
	}

	return out
}

// firstNamespace returns the first namespace declaration, covering both
// block-scoped and file-scoped forms.
func firstNamespace(stripped []byte) string {
	for i := 0; i < len(stripped); i++ {
		if !wordAt(stripped, i, "namespace") {
			continue
		}
		j := i + len("namespace")
		var b strings.Builder
		for j < len(stripped) {
			c := stripped[j]
			if isIdentPart(c) || c == '.' {
				b.WriteByte(c)
			} else if b.Len() > 0 {
				break
			}
			j++
		}
		return b.String()
	}
	return ""
}

// findClassSpans locates every class and interface declaration with its
// enclosing brace span. Nested types get their own span.
func findClassSpans(stripped []byte) []classSpan {
	var spans []classSpan

	for i := 0; i < len(stripped); i++ {
		var kind types.ClassKind
		var kwLen int
		switch {
		case wordAt(stripped, i, "class"):
			kind, kwLen = types.KindClass, len("class")
		case wordAt(stripped, i, "interface"):
			kind, kwLen = types.KindInterface, len("interface")
		default:
			continue
		}

		j := i + kwLen
		for j < len(stripped) && (stripped[j] == ' ' || stripped[j] == '\t' || stripped[j] == '\n' || stripped[j] == '\r') {
			j++
		}
		// "where T : class" style constraints are followed by punctuation,
		// not an identifier; skip those.
		if j >= len(stripped) || !isIdentStart(stripped[j]) {
			i = j
			continue
		}

		name, nameEnd := nextIdent(stripped, j)

		// Find the body opening brace; a ';' first means a declaration
		// without a body (e.g. partial forward form) and is skipped.
		bodyOpen := -1
		headEnd := nameEnd
		for k := nameEnd; k < len(stripped); k++ {
			if stripped[k] == '{' {
				bodyOpen = k
				headEnd = k
				break
			}
			if stripped[k] == ';' {
				headEnd = k
				break
			}
		}
		if bodyOpen == -1 {
			i = headEnd
			continue
		}

		bodyClose := matchBrace(stripped, bodyOpen)
		if bodyClose == -1 {
			i = bodyOpen
			continue
		}

		spans = append(spans, classSpan{
			kind:      kind,
			name:      name,
			baseTypes: parseBaseList(string(stripped[nameEnd:bodyOpen])),
			declStart: i,
			bodyOpen:  bodyOpen,
			bodyClose: bodyClose,
		})

		i = bodyOpen
	}

	return spans
}

// parseBaseList splits the text after ':' in a declaration head into base
// type and interface names, ignoring generic constraints.
func parseBaseList(head string) []string {
	if w := strings.Index(head, " where "); w != -1 {
		head = head[:w]
	}
	colon := strings.Index(head, ":")
	if colon == -1 {
		return nil
	}

	var bases []string
	depth := 0
	start := colon + 1
	flush := func(end int) {
		name := strings.TrimSpace(head[start:end])
		if name != "" {
			bases = append(bases, name)
		}
	}
	for i := colon + 1; i < len(head); i++ {
		switch head[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(head))
	return bases
}

// extractMembers scans the class body span for method, constructor,
// property and field declarations. Regions belonging to nested class spans
// are stepped over so inner members stay with the inner class.
func extractMembers(stripped []byte, span classSpan, allSpans []classSpan, model *types.ClassModel) {
	i := span.bodyOpen + 1
	end := span.bodyClose

	for i < end {
		// Step over nested type spans.
		if inner := innerSpanAt(allSpans, span, i); inner != nil {
			i = inner.bodyClose + 1
			continue
		}

		c := stripped[i]
		if c == '{' {
			if closing := matchBrace(stripped, i); closing != -1 {
				i = closing + 1
				continue
			}
			i++
			continue
		}
		if !isIdentStart(c) || (i > 0 && isIdentPart(stripped[i-1])) {
			i++
			continue
		}

		word, wordEnd := nextIdent(stripped, i)
		if _, ok := visibilityKeywords[word]; !ok {
			i = wordEnd
			continue
		}

		next := parseDeclaration(stripped, i, end, span, model)
		if next <= i {
			next = wordEnd
		}
		i = next
	}
}

func innerSpanAt(allSpans []classSpan, outer classSpan, pos int) *classSpan {
	for idx := range allSpans {
		s := &allSpans[idx]
		if s.declStart == outer.declStart {
			continue
		}
		if s.declStart > outer.bodyOpen && s.bodyClose < outer.bodyClose && pos >= s.declStart && pos <= s.bodyClose {
			return s
		}
	}
	return nil
}

// parseDeclaration consumes one member declaration starting at a
// visibility keyword and records it on the model. Returns the offset to
// resume scanning from.
func parseDeclaration(stripped []byte, start, end int, span classSpan, model *types.ClassModel) int {
	visibility := types.VisibilityPrivate
	isAsync := false
	isStatic := false
	var tokens []string

	i := start
	for i < end {
		c := stripped[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case isIdentStart(c):
			word, wordEnd := nextIdent(stripped, i)
			if vis, ok := visibilityKeywords[word]; ok && len(tokens) == 0 {
				if visibility == types.VisibilityPrivate {
					visibility = vis
				}
				i = wordEnd
				continue
			}
			if modifierKeywords[word] && len(tokens) == 0 {
				if word == "async" {
					isAsync = true
				}
				if word == "static" || word == "const" {
					isStatic = true
				}
				i = wordEnd
				continue
			}
			if word == "class" || word == "interface" || word == "enum" || word == "struct" || word == "record" || word == "delegate" || word == "event" {
				// Not a method/property/field declaration; resume after the
				// keyword so nested spans or other handling pick it up.
				return wordEnd
			}
			// Extend the token with qualified-name, generic, array and
			// nullable suffixes so "Dictionary<string, int>[]?" stays one token.
			tokEnd := wordEnd
			for tokEnd < end {
				switch stripped[tokEnd] {
				case '.':
					_, tokEnd = nextIdent(stripped, tokEnd+1)
				case '<':
					closing := matchAngle(stripped, tokEnd)
					if closing == -1 {
						tokens = append(tokens, string(stripped[i:tokEnd]))
						return tokEnd + 1
					}
					tokEnd = closing + 1
				case '[':
					closing := indexFrom(stripped, tokEnd, ']')
					if closing == -1 {
						return tokEnd + 1
					}
					tokEnd = closing + 1
				case '?':
					tokEnd++
				default:
					goto tokenDone
				}
			}
		tokenDone:
			tokens = append(tokens, strings.TrimSpace(string(stripped[i:tokEnd])))
			i = tokEnd

		case c == '(':
			return parseMethodLike(stripped, start, i, end, span, model, tokens, visibility, isAsync)

		case c == '{':
			return parseProperty(stripped, i, model, tokens, visibility)

		case c == ';':
			recordField(model, tokens, isStatic)
			return i + 1

		case c == '=' && i+1 < end && stripped[i+1] == '>':
			// Expression-bodied property: public string Name => _name;
			if len(tokens) >= 2 {
				model.Properties = append(model.Properties, types.PropertyModel{
					Name:       tokens[len(tokens)-1],
					TypeName:   tokens[len(tokens)-2],
					Visibility: visibility,
				})
			}
			semi := indexFrom(stripped, i, ';')
			if semi == -1 {
				return end
			}
			return semi + 1

		case c == '=':
			recordField(model, tokens, isStatic)
			semi := indexFrom(stripped, i, ';')
			if semi == -1 {
				return end
			}
			return semi + 1

		default:
			i++
		}
	}

	return end
}

// parseMethodLike handles methods and constructors once the scanner hits
// the parameter list open paren.
func parseMethodLike(stripped []byte, declStart, parenOpen, end int, span classSpan, model *types.ClassModel, tokens []string, visibility types.Visibility, isAsync bool) int {
	if len(tokens) == 0 {
		return parenOpen + 1
	}
	name := baseTokenName(tokens[len(tokens)-1])

	parenClose := matchParen(stripped, parenOpen)
	if parenClose == -1 {
		return parenOpen + 1
	}
	params := splitParams(string(stripped[parenOpen+1 : parenClose]))

	if name == span.name {
		// Constructor: record parameter types for injection analysis, not a
		// MethodModel.
		for _, p := range params {
			if t := paramType(p); t != "" {
				model.CtorParamTypes = append(model.CtorParamTypes, t)
			}
		}
	}

	// Find how the declaration ends: block body, expression body, or bare
	// semicolon (abstract and interface members).
	method := types.MethodModel{
		Name:           name,
		Visibility:     visibility,
		IsAsync:        isAsync,
		ParameterCount: len(params),
		Complexity:     1,
		Line:           lineOf(stripped, declStart),
	}

	i := parenClose + 1
	for i < end {
		c := stripped[i]
		switch {
		case c == '{':
			closing := matchBrace(stripped, i)
			if closing == -1 {
				return end
			}
			body := stripped[i+1 : closing]
			method.Complexity, method.HasErrorHandling, method.StatementCount = analyzeBody(body)
			if name != span.name {
				model.Methods = append(model.Methods, method)
			}
			return closing + 1

		case c == '=' && i+1 < end && stripped[i+1] == '>':
			semi := indexFrom(stripped, i, ';')
			if semi == -1 {
				semi = end - 1
			}
			body := stripped[i+2 : semi]
			complexity, hasCatch, _ := analyzeBody(body)
			method.Complexity = complexity
			method.HasErrorHandling = hasCatch
			method.StatementCount = 1
			if name != span.name {
				model.Methods = append(model.Methods, method)
			}
			return semi + 1

		case c == ';':
			if name != span.name {
				model.Methods = append(model.Methods, method)
			}
			return i + 1

		default:
			i++
		}
	}
	return end
}

// parseProperty records a property declaration whose accessor block starts
// at the given brace.
func parseProperty(stripped []byte, braceOpen int, model *types.ClassModel, tokens []string, visibility types.Visibility) int {
	closing := matchBrace(stripped, braceOpen)
	if closing == -1 {
		return braceOpen + 1
	}
	if len(tokens) >= 2 {
		model.Properties = append(model.Properties, types.PropertyModel{
			Name:       tokens[len(tokens)-1],
			TypeName:   tokens[len(tokens)-2],
			Visibility: visibility,
		})
	}
	// Skip past a possible initializer: { get; set; } = new();
	i := closing + 1
	for i < len(stripped) && (stripped[i] == ' ' || stripped[i] == '\t') {
		i++
	}
	if i < len(stripped) && stripped[i] == '=' {
		if semi := indexFrom(stripped, i, ';'); semi != -1 {
			return semi + 1
		}
	}
	return closing + 1
}

func recordField(model *types.ClassModel, tokens []string, isStatic bool) {
	if isStatic || len(tokens) < 2 {
		return
	}
	model.FieldTypes = append(model.FieldTypes, tokens[len(tokens)-2])
}

// baseTokenName strips generic, array and nullable suffixes from a token.
func baseTokenName(token string) string {
	for _, cut := range []string{"<", "[", "?"} {
		if idx := strings.Index(token, cut); idx != -1 {
			token = token[:idx]
		}
	}
	return token
}

// paramType extracts the type of one parameter declaration, dropping
// parameter modifiers and default values.
func paramType(param string) string {
	if eq := strings.Index(param, "="); eq != -1 {
		param = param[:eq]
	}
	fields := splitTypeTokens(param)
	// Drop leading modifiers; the last token is the parameter name, the one
	// before it the type.
	filtered := fields[:0]
	for _, f := range fields {
		switch f {
		case "ref", "out", "in", "params", "this", "scoped":
		default:
			filtered = append(filtered, f)
		}
	}
	if len(filtered) < 2 {
		return ""
	}
	return filtered[len(filtered)-2]
}

// splitTypeTokens splits on whitespace but keeps generic argument lists
// (which may contain spaces) inside a single token.
func splitTypeTokens(s string) []string {
	var tokens []string
	var b strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '<', '(', '[':
			depth++
			b.WriteByte(c)
		case '>', ')', ']':
			depth--
			b.WriteByte(c)
		case ' ', '\t', '\n', '\r':
			if depth > 0 {
				b.WriteByte(' ')
				continue
			}
			if b.Len() > 0 {
				tokens = append(tokens, b.String())
				b.Reset()
			}
		default:
			b.WriteByte(c)
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// splitParams splits a parameter list on top-level commas.
func splitParams(params string) []string {
	trimmed := strings.TrimSpace(params)
	if trimmed == "" {
		return nil
	}

	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(params[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(params[start:]))
	return out
}

// matchParen returns the offset of the ')' closing the '(' at open.
func matchParen(text []byte, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// matchAngle returns the offset of the '>' closing the '<' at open, or -1
// when the text is not a balanced generic argument list (e.g. a comparison).
func matchAngle(text []byte, open int) int {
	depth := 0
	for i := open; i < len(text) && i < open+256; i++ {
		switch text[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i
			}
		case ';', '{', '}':
			return -1
		}
	}
	return -1
}

func indexFrom(text []byte, from int, target byte) int {
	for i := from; i < len(text); i++ {
		if text[i] == target {
			return i
		}
	}
	return -1
}
