package gomap

// MapOption controls the conversion in both directions.
type MapOption func(*mapConfig)

type mapConfig struct {
	tagName         string
	disallowUnknown bool
}

func newMapConfig(opts []MapOption) *mapConfig {
	cfg := &mapConfig{tagName: "xton"}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// TagName selects the struct tag consulted for field names, "xton" by
// default. TagName("json") reuses existing json tags.
func TagName(name string) MapOption {
	return func(c *mapConfig) { c.tagName = name }
}

// DisallowUnknownFields makes FromIR fail when an object has a key that
// matches no struct field.
func DisallowUnknownFields() MapOption {
	return func(c *mapConfig) { c.disallowUnknown = true }
}
