// Package debug holds environment controlled debug switches.
//
// Each switch is read once at startup from an XTON_DEBUG_* variable
// parsed with strconv.ParseBool: XTON_DEBUG_PARSE, XTON_DEBUG_ENCODE,
// XTON_DEBUG_CONVERT and XTON_DEBUG_STORE.
package debug
