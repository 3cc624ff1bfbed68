// Package convert translates between XTon value trees and the JSON, YAML
// and TOML document formats.
//
// Object key order survives every conversion that the target format can
// express: JSON and YAML keep it both ways, TOML keeps it on the way in
// only. Integer-valued numbers read from other formats are integer-class
// and encode without a fractional part.
package convert
