package importer

import "regexp"

// Maps place URLs embed an opaque place identifier of the form
// "1s0x<hex>:0x<hex>" in their data segment. We lift it out so the record
// keeps a stable external reference even though we never call any Maps API
// to resolve it.
var placeIDPattern = regexp.MustCompile(`1s0x[0-9a-f]+:0x[0-9a-f]+`)

// ExtractPlaceID returns the embedded place identifier, or "" when the URL
// doesn't carry one. Absence is normal — short links and search URLs don't
// have it.
func ExtractPlaceID(url string) string {
	return placeIDPattern.FindString(url)
}
