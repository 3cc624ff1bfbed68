package encode

// DefaultMaxDepth bounds the nesting of encoded arrays and objects.
const DefaultMaxDepth = 512

type EncodeOption func(*EncState)

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}

// EncodeMaxDepth sets the nesting bound; n <= 0 selects DefaultMaxDepth.
func EncodeMaxDepth(n int) EncodeOption {
	return func(es *EncState) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		es.maxDepth = n
	}
}
