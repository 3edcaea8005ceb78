package types

// AccessModifier is the visibility of a class member.
type AccessModifier int

const (
	Public AccessModifier = iota
	Protected
	Private
)

func (a AccessModifier) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	default:
		return "private"
	}
}

// Signature is the part of a method/function declaration that must match
// exactly across an abstract declaration and its override, across an
// interface method and its implementer, and across a base method and the
// subclass method that makes it virtual (§4.2, §4.3, §4.4).
type Signature struct {
	Access     AccessModifier
	IsStatic   bool
	ReturnType Type
	ParamTypes []Type
}

// Equal reports whether two signatures are declaration-compatible: same
// access modifier, same staticness, same return type, same parameter types
// in the same order.
func (s Signature) Equal(other Signature) bool {
	if s.Access != other.Access || s.IsStatic != other.IsStatic {
		return false
	}
	if !s.ReturnType.Equals(other.ReturnType) {
		return false
	}
	if len(s.ParamTypes) != len(other.ParamTypes) {
		return false
	}
	for i, p := range s.ParamTypes {
		if !p.Equals(other.ParamTypes[i]) {
			return false
		}
	}
	return true
}
