package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Parse   bool
	Encode  bool
	Convert bool
	Store   bool
	Eval    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("XTON_DEBUG_PARSE")
	d.Encode = boolEnv("XTON_DEBUG_ENCODE")
	d.Convert = boolEnv("XTON_DEBUG_CONVERT")
	d.Store = boolEnv("XTON_DEBUG_STORE")
	d.Eval = boolEnv("XTON_DEBUG_EVAL")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Encode() bool {
	return d.Encode
}
func Convert() bool {
	return d.Convert
}
func Store() bool {
	return d.Store
}
func Eval() bool {
	return d.Eval
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(append(d, '\n'))
}
