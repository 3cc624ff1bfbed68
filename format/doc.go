// Package format names the document formats handled by the xt tooling.
//
// # Usage
//
//	f, err := format.ParseFormat("json")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(f.Suffix()) // ".json"
//
// The XTon format itself is handled by the parse and encode packages; the
// other formats are bridged by the convert package.
//
// # Related Packages
//
//   - github.com/signadot/xton-format/go-xton/convert - Convert between formats
//   - github.com/signadot/xton-format/go-xton/parse - Parse XTon text to IR
//   - github.com/signadot/xton-format/go-xton/encode - Encode IR to XTon text
package format
