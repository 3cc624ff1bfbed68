// Package server exposes XTon decoding, encoding, validation, format
// conversion and an optional Redis document store over HTTP.
//
//	POST   /v1/decode             XTon body, JSON result
//	POST   /v1/encode             JSON body, XTon result
//	POST   /v1/validate           XTon body, {"valid": ...}
//	POST   /v1/convert?from=&to=  any supported format pair
//	GET    /v1/docs               stored keys
//	PUT    /v1/docs/:key          store a document
//	GET    /v1/docs/:key          fetch a document
//	DELETE /v1/docs/:key          remove a document
//	GET    /healthz
//	GET    /metrics
package server
