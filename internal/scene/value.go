package scene

import (
	"strconv"
	"strings"
)

type ValueKind int

const (
	NoneValue ValueKind = iota
	StringValue
	TokenValue
	AssetValue
	PathValue
	NumberValue
	TupleValue
	ListValue
	DictValue
)

// Value is an authored attribute or metadata value of a layer
type Value struct {
	kind    ValueKind
	text    string
	target  string
	number  float64
	items   []*Value
	entries []DictEntry
}

// DictEntry is one typed field of a dictionary value
type DictEntry struct {
	Key      string
	TypeName string
	Value    *Value
}

// TimeSample is a value authored for a specific time code
type TimeSample struct {
	Time  float64
	Value *Value
}

func (v *Value) Kind() ValueKind {
	return v.kind
}

func (v *Value) IsNone() bool {
	return v == nil || v.kind == NoneValue
}

// Text returns the textual content of string, token, asset and path values.
// Asset paths followed by a prim path (@a.usda@</Root>) are joined: a.usda</Root>.
func (v *Value) Text() (string, bool) {
	if v == nil {
		return "", false
	}
	switch v.kind {
	case StringValue, TokenValue, PathValue:
		return v.text, true
	case AssetValue:
		return v.text + v.target, true
	}
	return "", false
}

func (v *Value) Number() (float64, bool) {
	if v == nil || v.kind != NumberValue {
		return 0, false
	}
	return v.number, true
}

// Numbers returns the components of a tuple or list made only of numbers
func (v *Value) Numbers() ([]float64, bool) {
	if v == nil || (v.kind != TupleValue && v.kind != ListValue) {
		return nil, false
	}
	out := make([]float64, len(v.items))
	for i, item := range v.items {
		n, ok := item.Number()
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// Rows returns a tuple of numeric tuples, the layout of matrix values
func (v *Value) Rows() ([][]float64, bool) {
	if v == nil || v.kind != TupleValue {
		return nil, false
	}
	rows := make([][]float64, len(v.items))
	for i, item := range v.items {
		row, ok := item.Numbers()
		if !ok {
			return nil, false
		}
		rows[i] = row
	}
	return rows, true
}

// Strings returns the text of every item of a list value
func (v *Value) Strings() ([]string, bool) {
	if v == nil || v.kind != ListValue {
		return nil, false
	}
	out := make([]string, len(v.items))
	for i, item := range v.items {
		s, ok := item.Text()
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

func (v *Value) Items() []*Value {
	if v == nil {
		return nil
	}
	return v.items
}

func (v *Value) Entries() []DictEntry {
	if v == nil {
		return nil
	}
	return v.entries
}

// Lookup finds a dictionary field by key
func (v *Value) Lookup(key string) (*Value, bool) {
	for _, e := range v.Entries() {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Bool interprets token values the way USD prints booleans
func (v *Value) Bool() (bool, bool) {
	if v == nil {
		return false, false
	}
	switch v.kind {
	case TokenValue:
		switch v.text {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	case NumberValue:
		return v.number != 0, true
	}
	return false, false
}

// String renders the value in layer syntax
func (v *Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v *Value) write(sb *strings.Builder) {
	if v == nil {
		sb.WriteString("None")
		return
	}
	switch v.kind {
	case NoneValue:
		sb.WriteString("None")
	case StringValue:
		sb.WriteString(strconv.Quote(v.text))
	case TokenValue:
		sb.WriteString(v.text)
	case AssetValue:
		sb.WriteString("@" + v.text + "@" + v.target)
	case PathValue:
		sb.WriteString(v.text)
	case NumberValue:
		sb.WriteString(strconv.FormatFloat(v.number, 'g', -1, 64))
	case TupleValue, ListValue:
		open, end := "(", ")"
		if v.kind == ListValue {
			open, end = "[", "]"
		}
		sb.WriteString(open)
		for i, item := range v.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.write(sb)
		}
		sb.WriteString(end)
	case DictValue:
		sb.WriteString("{")
		for i, e := range v.entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			if e.TypeName != "" {
				sb.WriteString(e.TypeName + " ")
			}
			sb.WriteString(e.Key + " = ")
			e.Value.write(sb)
		}
		sb.WriteString("}")
	}
}

func convertValue(u *usdaValue) *Value {
	switch {
	case u == nil || u.None:
		return &Value{kind: NoneValue}
	case u.Str != nil:
		return &Value{kind: StringValue, text: unquoteUSD(*u.Str)}
	case u.Asset != nil:
		v := &Value{kind: AssetValue, text: strings.Trim(u.Asset.Path, "@")}
		if u.Asset.Target != nil {
			v.target = *u.Asset.Target
		}
		return v
	case u.Path != nil:
		return &Value{kind: PathValue, text: *u.Path}
	case u.Number != nil:
		return &Value{kind: NumberValue, number: *u.Number}
	case u.Tuple != nil:
		return &Value{kind: TupleValue, items: convertValues(u.Tuple.Items)}
	case u.List != nil:
		return &Value{kind: ListValue, items: convertValues(u.List.Items)}
	case u.Dict != nil:
		v := &Value{kind: DictValue}
		for _, e := range u.Dict.Entries {
			if e.Field == nil {
				continue
			}
			typeName := e.Field.Type
			if e.Field.Array {
				typeName += "[]"
			}
			v.entries = append(v.entries, DictEntry{
				Key:      unquoteUSD(e.Field.Key),
				TypeName: typeName,
				Value:    convertValue(e.Field.Value),
			})
		}
		return v
	case u.Ident != nil:
		return &Value{kind: TokenValue, text: *u.Ident}
	}
	return &Value{kind: NoneValue}
}

func convertValues(items []*usdaValue) []*Value {
	out := make([]*Value, len(items))
	for i, item := range items {
		out[i] = convertValue(item)
	}
	return out
}

func convertTimeSamples(u *usdaValue) []TimeSample {
	if u == nil || u.Dict == nil {
		return nil
	}
	var samples []TimeSample
	for _, e := range u.Dict.Entries {
		if e.Sample != nil {
			samples = append(samples, TimeSample{Time: e.Sample.Time, Value: convertValue(e.Sample.Value)})
		}
	}
	return samples
}

// unquoteUSD strips the quotes of a string token. Triple quoted strings are kept verbatim.
func unquoteUSD(s string) string {
	switch {
	case len(s) >= 6 && (strings.HasPrefix(s, `"""`) || strings.HasPrefix(s, `'''`)):
		return s[3 : len(s)-3]
	case len(s) >= 2 && s[0] == '\'':
		inner := s[1 : len(s)-1]
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		if out, err := strconv.Unquote(`"` + inner + `"`); err == nil {
			return out
		}
		return s[1 : len(s)-1]
	case len(s) >= 2 && s[0] == '"':
		if out, err := strconv.Unquote(s); err == nil {
			return out
		}
		return s[1 : len(s)-1]
	}
	return s
}
