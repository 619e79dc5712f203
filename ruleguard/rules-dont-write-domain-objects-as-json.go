//go:build ruleguard
// +build ruleguard

package ruleguard

import (
	"github.com/quasilyte/go-ruleguard/dsl"
)

// The JSON shape of a review belongs to the http package, so domain objects
// should never be handed straight to the encoder.
//
// To work on this use ruleguard directly: ruleguard -rules ruleguard/rules-dont-write-domain-objects-as-json.go internal/reviewing/http/handler.go
func domainObjectsAsJSON(m dsl.Matcher) {
	m.Import("github.com/gaqzi/review-service/internal/reviewing")

	m.Match(`$pkg.WriteJSON($w, $status, $val)`).
		Where(m["val"].Type.Is(`reviewing.Review`) || m["val"].Type.Is(`[]reviewing.Review`) || m["val"].Type.Is(`reviewing.Summary`)).
		Report(`writing a reviewing domain object as JSON, convert it to a response type first: toResponse($val)`)

	m.Match(`map[$k]$v{$*_, $key: $val, $*_}`).
		Where(m["val"].Type.Is(`reviewing.Review`)).
		Report(`putting reviewing.Review into a response map, use: toResponse($val)`)
}
