package typemap

import (
	"iter"
	"math"
	"strconv"
)

// Kind identifies the shape of a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is an immutable, dynamically shaped input value. The zero Value is null.
//
// Values are built with the constructor functions ([Null], [Bool], [Number],
// [String], [Sequence], [Mapping], ...) or converted from generic decoder output
// using [FromAny]. Constructors copy their arguments and accessors never hand out
// internal storage, so a Value can be shared between goroutines.
type Value struct {
	kind Kind

	// text holds the string content or the canonical number literal
	text  string
	flag  bool
	items []Value

	// keys keeps mapping keys in order of first appearance
	keys    []string
	members map[string]Value
}

// Member is a single key/value pair of a mapping.
type Member struct {
	Key   string
	Value Value
}

// Pair creates a [Member] for use with [Mapping].
func Pair(key string, value Value) Member {
	return Member{Key: key, Value: value}
}

func Null() Value {
	return Value{}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Number creates a number from its decimal text. The text is kept as is,
// it must be a valid integer or floating point literal.
func Number(text string) Value {
	return Value{kind: KindNumber, text: text}
}

func Int(i int64) Value {
	return Number(strconv.FormatInt(i, 10))
}

func Uint(u uint64) Value {
	return Number(strconv.FormatUint(u, 10))
}

// Float creates a number from f. NaN and infinities have no literal
// representation and become null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}

	return Number(strconv.FormatFloat(f, 'f', -1, 64))
}

func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Sequence creates an ordered sequence of values.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: append([]Value(nil), items...)}
}

// Mapping creates a string keyed mapping. Keys keep the order of their first
// appearance; a repeated key replaces the earlier value.
func Mapping(members ...Member) Value {
	value := Value{
		kind:    KindMapping,
		members: make(map[string]Value, len(members)),
	}

	for _, member := range members {
		if _, exists := value.members[member.Key]; !exists {
			value.keys = append(value.keys, member.Key)
		}

		value.members[member.Key] = member.Value
	}

	return value
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsComposite reports whether v is a sequence or a mapping.
func (v Value) IsComposite() bool {
	return v.kind == KindSequence || v.kind == KindMapping
}

// AsBool returns the boolean if v is a bool.
func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// AsNumber returns the number literal if v is a number.
func (v Value) AsNumber() (string, bool) {
	if v.kind != KindNumber {
		return "", false
	}

	return v.text, true
}

// AsString returns the string if v is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}

	return v.text, true
}

// Len returns the number of items of a sequence or members of a mapping.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.keys)
	default:
		return 0
	}
}

// Items iterates over the elements of a sequence. It yields nothing for
// any other kind.
func (v Value) Items() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		if v.kind != KindSequence {
			return
		}

		for _, item := range v.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Members iterates over the key/value pairs of a mapping in key order. It
// yields nothing for any other kind.
func (v Value) Members() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if v.kind != KindMapping {
			return
		}

		for _, key := range v.keys {
			if !yield(key, v.members[key]) {
				return
			}
		}
	}
}

// Get returns the member of a mapping with the given key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}

	member, ok := v.members[key]
	return member, ok
}

// Interface returns the plain go representation of v: nil, bool, int64 or float64,
// string, []any and map[string]any. Numbers that fit into an int64 are returned
// as such, all other numbers as float64.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.flag

	case KindNumber:
		if i, err := strconv.ParseInt(v.text, 10, 64); err == nil {
			return i
		}

		f, _ := strconv.ParseFloat(v.text, 64)
		return f

	case KindString:
		return v.text

	case KindSequence:
		items := make([]any, 0, len(v.items))
		for _, item := range v.items {
			items = append(items, item.Interface())
		}

		return items

	case KindMapping:
		members := make(map[string]any, len(v.keys))
		for _, key := range v.keys {
			members[key] = v.members[key].Interface()
		}

		return members

	default:
		return nil
	}
}
