package runtime

import "strings"

// StringObj is the runtime representation of the source `string` type: an
// opaque byte sequence (§1 non-goal: "no Unicode string operations"),
// grounded on original_source/src/runtime/string.h's {str, len} shape.
type StringObj struct {
	Bytes []byte
}

// Trace reports no children: a string owns no other heap value.
func (*StringObj) Trace() []Heap { return nil }

// NewString allocates a string copying s's bytes, mirroring
// String_create/String_construct.
func NewString(gc *GC, s string) *StringObj {
	obj := &StringObj{Bytes: []byte(s)}
	gc.Alloc(obj)
	return obj
}

func (s *StringObj) String() string { return string(s.Bytes) }

// StringConcat mirrors String_concat: allocates a new string, the
// receiver's bytes followed by other's.
func StringConcat(gc *GC, recv, other *StringObj) *StringObj {
	if len(other.Bytes) == 0 {
		return NewString(gc, string(recv.Bytes))
	}
	buf := make([]byte, 0, len(recv.Bytes)+len(other.Bytes))
	buf = append(buf, recv.Bytes...)
	buf = append(buf, other.Bytes...)
	obj := &StringObj{Bytes: buf}
	gc.Alloc(obj)
	return obj
}

func StringLength(recv *StringObj) int64 { return int64(len(recv.Bytes)) }

func StringIsEmpty(recv *StringObj) bool { return len(recv.Bytes) == 0 }

// StringTrim strips leading/trailing ASCII whitespace, mirroring
// String_trim's isspace-based scan.
func StringTrim(gc *GC, recv *StringObj) *StringObj {
	trimmed := strings.Trim(string(recv.Bytes), " \t\n\v\f\r")
	return NewString(gc, trimmed)
}

func StringToLower(gc *GC, recv *StringObj) *StringObj {
	return NewString(gc, strings.ToLower(string(recv.Bytes)))
}

func StringToUpper(gc *GC, recv *StringObj) *StringObj {
	return NewString(gc, strings.ToUpper(string(recv.Bytes)))
}

// StringIndex mirrors String_index: byte offset of the first occurrence
// of other in recv, or -1.
func StringIndex(recv, other *StringObj) int64 {
	idx := strings.Index(string(recv.Bytes), string(other.Bytes))
	return int64(idx)
}

func StringContains(recv, other *StringObj) bool {
	return StringIndex(recv, other) != -1
}

func StringStartsWith(recv, other *StringObj) bool {
	return bytesHasPrefix(recv.Bytes, other.Bytes)
}

func StringEndsWith(recv, other *StringObj) bool {
	return bytesHasSuffix(recv.Bytes, other.Bytes)
}

func bytesHasPrefix(s, prefix []byte) bool {
	if len(prefix) > len(s) {
		return false
	}
	return string(s[:len(prefix)]) == string(prefix)
}

func bytesHasSuffix(s, suffix []byte) bool {
	if len(suffix) > len(s) {
		return false
	}
	return string(s[len(s)-len(suffix):]) == string(suffix)
}

// StringSubstring mirrors String_substring's boundary behavior exactly: a
// negative offset, non-positive length, or an offset past the end all
// yield the empty string rather than aborting (§8 boundary case:
// `"abc".substring(-1, 2)` → `""`).
func StringSubstring(gc *GC, recv *StringObj, offset, length int64) *StringObj {
	if offset < 0 || length <= 0 || offset > int64(len(recv.Bytes)) {
		return NewString(gc, "")
	}
	if length+offset > int64(len(recv.Bytes)) {
		length = int64(len(recv.Bytes)) - offset
	}
	return NewString(gc, string(recv.Bytes[offset:offset+length]))
}

// CompareStrings is the `==`/`!=` runtime helper (§6 x.compareStrings):
// byte-exact equality, no locale/case folding.
func CompareStrings(a, b *StringObj) bool {
	return string(a.Bytes) == string(b.Bytes)
}
