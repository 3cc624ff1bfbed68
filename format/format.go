package format

import (
	"errors"
	"fmt"
)

type Format int

const (
	XTonFormat Format = iota
	JSONFormat
	YAMLFormat
	TOMLFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"x":    XTonFormat,
		"xt":   XTonFormat,
		"xton": XTonFormat,
		"j":    JSONFormat,
		"json": JSONFormat,
		"y":    YAMLFormat,
		"yaml": YAMLFormat,
		"toml": TOMLFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case XTonFormat:
		return []byte("xton"), nil
	case JSONFormat:
		return []byte("json"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	case TOMLFormat:
		return []byte("toml"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsXTon() bool { return f == XTonFormat }
func (f Format) IsJSON() bool { return f == JSONFormat }
func (f Format) IsYAML() bool { return f == YAMLFormat }
func (f Format) IsTOML() bool { return f == TOMLFormat }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case XTonFormat:
		return ".xt"
	case JSONFormat:
		return ".json"
	case YAMLFormat:
		return ".yaml"
	case TOMLFormat:
		return ".toml"
	default:
		return ""
	}
}

// FromSuffix guesses a format from a file name, defaulting to XTon.
func FromSuffix(name string) Format {
	for _, f := range AllFormats() {
		suf := f.Suffix()
		if len(name) > len(suf) && name[len(name)-len(suf):] == suf {
			return f
		}
	}
	if len(name) > 4 && name[len(name)-4:] == ".yml" {
		return YAMLFormat
	}
	return XTonFormat
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{XTonFormat, JSONFormat, YAMLFormat, TOMLFormat}
}
