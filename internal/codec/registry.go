package codec

// Registry is an immutable, process-wide set of codecs, built once
// before Server.Run() and never mutated afterward (the same
// "build-then-freeze" discipline the router and middleware chain
// already follow for configuration assembled at setup time).
type Registry struct {
	codecs map[string]Codec
	order  []string
}

// NewRegistry builds a Registry over codecs, in preference order (the
// order used to break Accept-Encoding q-value ties, most preferred
// first).
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{codecs: make(map[string]Codec, len(codecs))}
	for _, c := range codecs {
		if _, ok := r.codecs[c.Name()]; ok {
			continue
		}
		r.codecs[c.Name()] = c
		r.order = append(r.order, c.Name())
	}
	return r
}

// DefaultRegistry returns gzip, deflate and brotli at their
// compress/flate package defaults, gzip preferred first as the
// content-coding with the widest client support.
func DefaultRegistry() *Registry {
	return NewRegistry(
		gzipCodec{level: gzipDefaultLevel},
		brotliCodec{level: brotliDefaultLevel},
		deflateCodec{level: deflateDefaultLevel},
	)
}

const (
	gzipDefaultLevel    = 6
	deflateDefaultLevel = 6
	brotliDefaultLevel  = 5
)

// Lookup returns the codec registered under name, if any.
func (r *Registry) Lookup(name string) (Codec, bool) {
	c, ok := r.codecs[name]
	return c, ok
}

// Names returns the registered content-coding tokens in preference
// order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
