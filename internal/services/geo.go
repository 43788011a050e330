package services

import "math"

const (
	earthRadiusKm = 6371.0
	// SimilarRadiusKm is the maximum distance for location similarity.
	SimilarRadiusKm = 50.0
)

// haversineKm returns the great-circle distance in kilometres between two points
// given in decimal degrees.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dLng := toRadians(lng2 - lng1)
	cos := math.Sin(phi1)*math.Sin(phi2) + math.Cos(phi1)*math.Cos(phi2)*math.Cos(dLng)
	// rounding can push identical points slightly past 1
	cos = math.Max(-1, math.Min(1, cos))
	return earthRadiusKm * math.Acos(cos)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
