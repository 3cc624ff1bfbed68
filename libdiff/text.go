package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Text returns a character level diff of two texts. With color set,
// deletions and insertions are marked with ANSI colors; otherwise they
// are written as [-deleted-] and {+inserted+}. Equal texts give "".
func Text(from, to string, color bool) string {
	dmp := diffpatch.New()
	ds := dmp.DiffMain(from, to, false)
	ds = dmp.DiffCleanupSemantic(ds)
	if len(ds) == 0 || (len(ds) == 1 && ds[0].Type == diffpatch.DiffEqual) {
		return ""
	}
	if color {
		return dmp.DiffPrettyText(ds)
	}
	var b strings.Builder
	for _, d := range ds {
		switch d.Type {
		case diffpatch.DiffDelete:
			b.WriteString("[-")
			b.WriteString(d.Text)
			b.WriteString("-]")
		case diffpatch.DiffInsert:
			b.WriteString("{+")
			b.WriteString(d.Text)
			b.WriteString("+}")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
