package spatial

// Base32 encoding for geohash
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// Geohash precision limits
const (
	MinGeohashPrecision = 1
	MaxGeohashPrecision = 12
)

// EncodeGeohash encodes p into a geohash string
// precision: number of characters in the geohash (1-12)
func EncodeGeohash(p Point, precision int) string {
	precision = clampPrecision(precision)

	latRange := [2]float64{-90.0, 90.0}
	lonRange := [2]float64{-180.0, 180.0}

	geohash := make([]byte, 0, precision)
	bits := 0
	even := true
	ch := 0

	for len(geohash) < precision {
		if even {
			mid := (lonRange[0] + lonRange[1]) / 2
			if p.Lon > mid {
				ch |= 1 << (4 - bits)
				lonRange[0] = mid
			} else {
				lonRange[1] = mid
			}
		} else {
			mid := (latRange[0] + latRange[1]) / 2
			if p.Lat > mid {
				ch |= 1 << (4 - bits)
				latRange[0] = mid
			} else {
				latRange[1] = mid
			}
		}
		even = !even

		bits++
		if bits == 5 {
			geohash = append(geohash, base32[ch])
			bits = 0
			ch = 0
		}
	}

	return string(geohash)
}

// GeohashBounds returns the bounding box of a geohash cell. Characters
// outside the alphabet are skipped.
func GeohashBounds(geohash string) Bounds {
	latRange := [2]float64{-90.0, 90.0}
	lonRange := [2]float64{-180.0, 180.0}

	isLon := true
	for i := 0; i < len(geohash); i++ {
		idx := indexOfBase32(geohash[i])
		if idx == -1 {
			continue
		}

		for mask := 16; mask > 0; mask >>= 1 {
			r := &latRange
			if isLon {
				r = &lonRange
			}
			mid := (r[0] + r[1]) / 2
			if idx&mask != 0 {
				r[0] = mid
			} else {
				r[1] = mid
			}
			isLon = !isLon
		}
	}

	return Bounds{MinLat: latRange[0], MinLon: lonRange[0], MaxLat: latRange[1], MaxLon: lonRange[1]}
}

// DecodeGeohash returns the center point of the geohash cell
func DecodeGeohash(geohash string) Point {
	return GeohashBounds(geohash).Center()
}

// GeohashCellSize returns the approximate cell size in meters for a given precision
func GeohashCellSize(precision int) float64 {
	// Approximate cell widths at equator
	switch precision {
	case 1:
		return 5000000 // ±2500 km
	case 2:
		return 625000 // ±312.5 km
	case 3:
		return 123000 // ±61.5 km
	case 4:
		return 19500 // ±9.75 km
	case 5:
		return 3900 // ±1.95 km
	case 6:
		return 610 // ±305 m
	case 7:
		return 120 // ±60 m
	case 8:
		return 19 // ±9.5 m
	case 9:
		return 3.7 // ±1.85 m
	case 10:
		return 0.6 // ±30 cm
	case 11:
		return 0.12 // ±6 cm
	case 12:
		return 0.019 // ±0.95 cm
	}
	return 0
}

// GeohashPrecisionForDistance returns the coarsest precision whose cells are
// no larger than distanceMeters
func GeohashPrecisionForDistance(distanceMeters float64) int {
	for precision := MinGeohashPrecision; precision <= MaxGeohashPrecision; precision++ {
		if GeohashCellSize(precision) <= distanceMeters {
			return precision
		}
	}
	return MaxGeohashPrecision
}

func clampPrecision(precision int) int {
	if precision < MinGeohashPrecision {
		return MinGeohashPrecision
	}
	if precision > MaxGeohashPrecision {
		return MaxGeohashPrecision
	}
	return precision
}

// indexOfBase32 finds the index of a character in the base32 alphabet
func indexOfBase32(ch byte) int {
	for i := 0; i < len(base32); i++ {
		if base32[i] == ch {
			return i
		}
	}
	return -1
}
