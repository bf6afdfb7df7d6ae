package redis

const (
	// KeyGeocodeCache holds the whole geocode memo as one JSON document.
	KeyGeocodeCache = "shiptrack:geocode:v1"
)
