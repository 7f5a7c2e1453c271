package page

// Headers is an ordered front-matter mapping. Order is preserved for
// serialization round trips; the content hash sorts keys itself, so
// insertion order never leaks into the digest.
type Headers struct {
	keys   []string
	values map[string]string
}

// NewHeaders returns an empty ordered mapping.
func NewHeaders() *Headers {
	return &Headers{values: make(map[string]string)}
}

// Set adds or replaces a header, keeping first-insertion order.
func (h *Headers) Set(key, value string) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

// Get returns the value for key and whether it is present.
func (h *Headers) Get(key string) (string, bool) {
	v, ok := h.values[key]
	return v, ok
}

// Keys returns the header keys in insertion order.
func (h *Headers) Keys() []string {
	return append([]string(nil), h.keys...)
}

// Len returns the number of headers.
func (h *Headers) Len() int { return len(h.keys) }

// Map returns an unordered copy of the mapping.
func (h *Headers) Map() map[string]string {
	out := make(map[string]string, len(h.values))
	for k, v := range h.values {
		out[k] = v
	}
	return out
}
