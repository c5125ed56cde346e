package geospatial

import "math"

// statuteMilesPerNauticalMile converts nautical miles to statute miles.
const statuteMilesPerNauticalMile = 1.15077945

// StatuteMiles returns the great-circle distance between two points in
// statute miles using the spherical law of cosines.
//
// Coordinates are not range-checked. Any NaN or infinite input yields +Inf
// so that the result never falls within a radius.
func StatuteMiles(lat1, lon1, lat2, lon2 float64) float64 {
	if !finite(lat1) || !finite(lon1) || !finite(lat2) || !finite(lon2) {
		return math.Inf(1)
	}
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	phi1, phi2 := toRad(lat1), toRad(lat2)
	cosAngle := math.Sin(phi1)*math.Sin(phi2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Cos(toRad(lon1-lon2))

	// rounding can push the argument just outside acos' domain
	cosAngle = math.Max(-1, math.Min(1, cosAngle))

	nauticalMiles := 60 * toDeg(math.Acos(cosAngle))
	return statuteMilesPerNauticalMile * nauticalMiles
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
