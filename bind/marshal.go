package bind

import "strings"

// Descriptor is a native marshal descriptor. A non-pointer
// descriptor is just its tag name (or empty for void); a pointer
// descriptor is spelled "tag*" (mutable) or "tag&" (const).
type Descriptor struct {
	Tag       string
	IsPointer bool
	Mutable   bool // only meaningful when IsPointer
}

// String renders d the way a function's string form spells a
// marshal descriptor: "tag*"/"tag&" for pointers, a bare tag (possibly empty, meaning
// void) otherwise.
func (d Descriptor) String() string {
	if !d.IsPointer {
		return d.Tag
	}
	if d.Mutable {
		return d.Tag + "*"
	}
	return d.Tag + "&"
}

// ParseDescriptor parses the marshal-descriptor spelling String produces.
func ParseDescriptor(s string) Descriptor {
	if strings.HasSuffix(s, "*") {
		return Descriptor{Tag: strings.TrimSuffix(s, "*"), IsPointer: true, Mutable: true}
	}
	if strings.HasSuffix(s, "&") {
		return Descriptor{Tag: strings.TrimSuffix(s, "&"), IsPointer: true, Mutable: false}
	}
	return Descriptor{Tag: s}
}
