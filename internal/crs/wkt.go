package crs

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// wktNode is one KEYWORD[arg, arg, ...] element of an OGC Well Known Text definition.
//
//nolint:govet // participle grammar tags are not standard struct tags
type wktNode struct {
	Keyword string    `@Ident`
	Args    []*wktArg `( "[" | "(" ) ( @@ ( "," @@ )* )? ( "]" | ")" )`
}

//nolint:govet // participle grammar tags are not standard struct tags
type wktArg struct {
	Node   *wktNode `  @@`
	String *string  `| @String`
	Number *float64 `| @Number`
	Enum   *string  `| @Ident`
}

var wktLexer = lexer.MustSimple([]lexer.SimpleRule{
	// WKT escapes a quote inside a quoted string by doubling it
	{Name: "String", Pattern: `"(?:[^"]|"")*"`},
	{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[\[\]\(\),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var wktParser = participle.MustBuild[wktNode](
	participle.Lexer(wktLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

func parseWKT(text string) (*wktNode, error) {
	return wktParser.ParseString("", text)
}

func unquoteWKT(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `""`, `"`)
}

func (n *wktNode) is(keywords ...string) bool {
	for _, k := range keywords {
		if strings.EqualFold(n.Keyword, k) {
			return true
		}
	}
	return false
}

// Returns the first direct child node matching one of the keywords
func (n *wktNode) child(keywords ...string) *wktNode {
	if n == nil {
		return nil
	}
	for _, a := range n.Args {
		if a.Node != nil && a.Node.is(keywords...) {
			return a.Node
		}
	}
	return nil
}

func (n *wktNode) children(keywords ...string) []*wktNode {
	if n == nil {
		return nil
	}
	var out []*wktNode
	for _, a := range n.Args {
		if a.Node != nil && a.Node.is(keywords...) {
			out = append(out, a.Node)
		}
	}
	return out
}

// Returns the first quoted argument, which WKT uses as the element name
func (n *wktNode) name() string {
	if n == nil {
		return ""
	}
	for _, a := range n.Args {
		if a.String != nil {
			return unquoteWKT(*a.String)
		}
	}
	return ""
}

// Returns the i-th numeric argument, counting numbers only
func (n *wktNode) number(i int) (float64, bool) {
	if n == nil {
		return 0, false
	}
	for _, a := range n.Args {
		if a.Number != nil {
			if i == 0 {
				return *a.Number, true
			}
			i--
		}
	}
	return 0, false
}

func (n *wktNode) numbers() []float64 {
	var out []float64
	for _, a := range n.Args {
		if a.Number != nil {
			out = append(out, *a.Number)
		}
	}
	return out
}

// Returns the first bare identifier argument (e.g. the direction of an AXIS)
func (n *wktNode) enum() string {
	if n == nil {
		return ""
	}
	for _, a := range n.Args {
		if a.Enum != nil {
			return *a.Enum
		}
	}
	return ""
}

// Writes the canonical form: upper-case keywords, square brackets, no whitespace
// and shortest round-trip numbers.
func (n *wktNode) writeCanonical(sb *strings.Builder) {
	sb.WriteString(strings.ToUpper(n.Keyword))
	sb.WriteByte('[')
	for i, a := range n.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		switch {
		case a.Node != nil:
			a.Node.writeCanonical(sb)
		case a.String != nil:
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(unquoteWKT(*a.String), `"`, `""`))
			sb.WriteByte('"')
		case a.Number != nil:
			sb.WriteString(strconv.FormatFloat(*a.Number, 'f', -1, 64))
		case a.Enum != nil:
			sb.WriteString(strings.ToUpper(*a.Enum))
		}
	}
	sb.WriteByte(']')
}

func (n *wktNode) canonical() string {
	var sb strings.Builder
	n.writeCanonical(&sb)
	return sb.String()
}
