// Package imageurl turns photo references returned by the API into URLs
// that can be displayed or downloaded.
package imageurl

import "strings"

// DefaultPlaceholder is served for listings without a photo.
const DefaultPlaceholder = "/images/placeholder.png"

var absolutePrefixes = []string{"http://", "https://", "data:", "blob:"}

// Resolver resolves references against an image base URL.
type Resolver struct {
	base        string
	placeholder string
}

// New returns a Resolver for base. An empty placeholder selects
// DefaultPlaceholder.
func New(base, placeholder string) Resolver {
	placeholder = strings.TrimSpace(placeholder)
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	if !isAbsolute(placeholder) && !strings.HasPrefix(placeholder, "/") {
		placeholder = "/" + placeholder
	}
	return Resolver{
		base:        strings.TrimRight(strings.TrimSpace(base), "/"),
		placeholder: placeholder,
	}
}

// Base returns the normalized image base URL.
func (r Resolver) Base() string { return r.base }

// Placeholder returns the fully qualified placeholder URL. The zero Resolver
// uses DefaultPlaceholder.
func (r Resolver) Placeholder() string {
	p := r.placeholder
	if p == "" {
		p = DefaultPlaceholder
	}
	if isAbsolute(p) {
		return p
	}
	return r.base + p
}

// Resolve applies, in order: empty → placeholder; absolute URL → as is;
// leading "/" → base+ref; anything else → base+"/"+ref.
func (r Resolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return r.Placeholder()
	case isAbsolute(ref):
		return ref
	case strings.HasPrefix(ref, "/"):
		return r.base + ref
	default:
		return r.base + "/" + ref
	}
}

// ResolvePtr resolves an optional reference; nil yields the placeholder.
func (r Resolver) ResolvePtr(ref *string) string {
	if ref == nil {
		return r.Placeholder()
	}
	return r.Resolve(*ref)
}

// ResolveAll resolves every non-empty reference, dropping empty ones.
// It never returns nil.
func (r Resolver) ResolveAll(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		out = append(out, r.Resolve(ref))
	}
	return out
}

func isAbsolute(ref string) bool {
	lower := strings.ToLower(ref)
	for _, p := range absolutePrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
