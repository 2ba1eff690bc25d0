// Package geo holds the distance and flight-time arithmetic used by the
// reference game service.
package geo

import "math"

const earthRadiusKm = 6371.0088

// minutesPer100Km is the flight time for every 100 km travelled.
const minutesPer100Km = 15.0

// DistanceKm returns the great-circle distance between two lat/lng points.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// FlightMinutes converts a distance into flight time.
func FlightMinutes(distanceKm float64) float64 {
	return distanceKm / 100 * minutesPer100Km
}
