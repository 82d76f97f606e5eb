package scene

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Grammar for the text (.usda) layer format. Composition arcs are parsed so that
// real files load, but only the local opinions of the layer are used.

//nolint:govet // participle grammar tags are not standard struct tags
type usdaLayer struct {
	Metadata *usdaMetadata `@@?`
	Prims    []*usdaPrim   `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaMetadata struct {
	Entries []*usdaMetadataEntry `"(" ( @@ ";"? )* ")"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaMetadataEntry struct {
	Doc   *string        `  @(String | TripleString)`
	Field *usdaMetaField `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaMetaField struct {
	ListOp string     `@("prepend" | "append" | "add" | "delete" | "reorder")?`
	Key    string     `@Ident "="`
	Value  *usdaValue `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaPrim struct {
	Specifier string          `@("def" | "over" | "class")`
	TypeName  string          `@Ident?`
	Name      string          `@String`
	Metadata  *usdaMetadata   `@@?`
	Items     []*usdaPrimItem `"{" @@* "}"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaPrimItem struct {
	Child      *usdaPrim       `  @@`
	VariantSet *usdaVariantSet `| @@`
	Reorder    *usdaReorder    `| @@`
	Property   *usdaProperty   `| @@ ";"?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaVariantSet struct {
	Name     string         `"variantSet" @String "="`
	Variants []*usdaVariant `"{" @@* "}"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaVariant struct {
	Name     string          `@String`
	Metadata *usdaMetadata   `@@?`
	Items    []*usdaPrimItem `"{" @@* "}"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaReorder struct {
	Key   string     `"reorder" @Ident "="`
	Value *usdaValue `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaProperty struct {
	ListOp      string        `@("prepend" | "append" | "add" | "delete")?`
	Custom      bool          `@"custom"?`
	Variability string        `@("uniform" | "varying" | "config")?`
	Type        string        `@Ident`
	Array       bool          `@( "[" "]" )?`
	Name        string        `@Ident`
	Value       *usdaValue    `( "=" @@ )?`
	Metadata    *usdaMetadata `@@?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaValue struct {
	None   bool       `  @"None"`
	Str    *string    `| @(String | TripleString)`
	Asset  *usdaAsset `| @@`
	Path   *string    `| @PathRef`
	Number *float64   `| @Number`
	Tuple  *usdaTuple `| @@`
	List   *usdaList  `| @@`
	Dict   *usdaDict  `| @@`
	Ident  *string    `| @Ident`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaAsset struct {
	Path   string  `@Asset`
	Target *string `@PathRef?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaTuple struct {
	Items []*usdaValue `"(" ( @@ ( "," @@ )* ","? )? ")"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaList struct {
	Items []*usdaValue `"[" ( @@ ( "," @@ )* ","? )? "]"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaDict struct {
	Entries []*usdaDictEntry `"{" ( @@ ( ";" | "," )? )* "}"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaDictEntry struct {
	Sample *usdaTimeSample `  @@`
	Field  *usdaDictField  `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaTimeSample struct {
	Time  float64    `@Number ":"`
	Value *usdaValue `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type usdaDictField struct {
	Type  string     `@Ident`
	Array bool       `@( "[" "]" )?`
	Key   string     `@(Ident | String) "="`
	Value *usdaValue `@@`
}

var usdaLexer = lexer.MustSimple([]lexer.SimpleRule{
	// the "#usda 1.0" header is a comment as far as the grammar is concerned
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "TripleString", Pattern: `"""(?s:.*?)"""|'''(?s:.*?)'''`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\\n])*"|'(?:\\.|[^'\\\n])*'`},
	{Name: "Asset", Pattern: `@[^@\n]*@`},
	{Name: "PathRef", Pattern: `<[^<>\n]*>`},
	{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*(?::[A-Za-z_][A-Za-z0-9_]*)*(?:\.[A-Za-z_]+)?`},
	{Name: "Punct", Pattern: `[{}()\[\]=,;:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var usdaParser = participle.MustBuild[usdaLayer](
	participle.Lexer(usdaLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(4),
)
