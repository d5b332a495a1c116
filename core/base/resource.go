package base

import "fmt"

// EntryType describes whether traffic through a resource is inbound
// (this process is the provider) or outbound (this process is the
// consumer of some downstream dependency).
type EntryType int8

const (
	Inbound EntryType = iota
	Outbound
)

func (t EntryType) String() string {
	switch t {
	case Inbound:
		return "Inbound"
	case Outbound:
		return "Outbound"
	default:
		return fmt.Sprintf("EntryType(%d)", int8(t))
	}
}

// ResourceKind distinguishes a resource named by a plain string from
// one derived from a method descriptor. Go has no reflect.Method handle
// tied to a receiver the way Java does, so KindMethod resources are
// still identified by name; the kind only records how that name was
// produced, for callers that want to branch on it.
type ResourceKind int8

const (
	KindString ResourceKind = iota
	KindMethod
)

func (k ResourceKind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindMethod:
		return "Method"
	default:
		return fmt.Sprintf("ResourceKind(%d)", int8(k))
	}
}

// ResourceWrapper identifies a protected resource. It is a plain
// comparable struct so it can be used directly as a map key: two
// wrappers are equal, and hash equally, iff all three fields match,
// which is exactly the identity spec this module needs and needs no
// hand-rolled equals/hashCode pair to get right.
type ResourceWrapper struct {
	name      string
	entryType EntryType
	kind      ResourceKind
}

// NewResource builds a string-named resource wrapper.
func NewResource(name string, entryType EntryType) ResourceWrapper {
	return ResourceWrapper{name: name, entryType: entryType, kind: KindString}
}

// NewMethodResource builds a resource wrapper for a method, identified
// by its fully qualified descriptor (e.g. "pkg.Type.Method").
func NewMethodResource(descriptor string, entryType EntryType) ResourceWrapper {
	return ResourceWrapper{name: descriptor, entryType: entryType, kind: KindMethod}
}

func (r ResourceWrapper) Name() string         { return r.name }
func (r ResourceWrapper) EntryType() EntryType { return r.entryType }
func (r ResourceWrapper) Kind() ResourceKind   { return r.kind }
func (r ResourceWrapper) IsZero() bool         { return r == ResourceWrapper{} }

func (r ResourceWrapper) String() string {
	return fmt.Sprintf("ResourceWrapper{name=%s, entryType=%s, kind=%s}", r.name, r.entryType, r.kind)
}
