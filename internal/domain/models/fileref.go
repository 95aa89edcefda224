package models

import (
	"fmt"
	"strings"
)

// FileRefKind distinguishes references that survive restarts from ones that
// die with the session that issued them.
type FileRefKind string

const (
	// FileRefDurable locators (object-store keys) stay resolvable across runs.
	FileRefDurable FileRefKind = "durable"

	// FileRefTransient locators are only valid while the issuing process
	// lives; resolving one later yields ErrContentUnavailable.
	FileRefTransient FileRefKind = "transient"
)

// FileRef addresses stored file content. The zero value means "no content".
type FileRef struct {
	Kind    FileRefKind `json:"kind"`
	Locator string      `json:"locator"`
}

// DurableRef builds a durable reference.
func DurableRef(locator string) FileRef {
	return FileRef{Kind: FileRefDurable, Locator: locator}
}

// TransientRef builds a session-scoped reference.
func TransientRef(locator string) FileRef {
	return FileRef{Kind: FileRefTransient, Locator: locator}
}

// IsZero reports whether the reference addresses nothing.
func (r FileRef) IsZero() bool {
	return r.Locator == ""
}

func (r FileRef) String() string {
	if r.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s:%s", r.Kind, r.Locator)
}

// ParseFileRef reads the "kind:locator" form produced by String. Used by
// adapters that persist the reference as a single column.
func ParseFileRef(s string) (FileRef, error) {
	if s == "" {
		return FileRef{}, nil
	}
	kind, locator, ok := strings.Cut(s, ":")
	if !ok {
		return FileRef{}, fmt.Errorf("malformed file reference %q", s)
	}
	switch FileRefKind(kind) {
	case FileRefDurable, FileRefTransient:
		return FileRef{Kind: FileRefKind(kind), Locator: locator}, nil
	}
	return FileRef{}, fmt.Errorf("unknown file reference kind %q", kind)
}
