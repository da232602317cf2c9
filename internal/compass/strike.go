// Package compass formats compass and clinometer readings in geological
// notation.
package compass

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

// ErrInvalidStrike is returned by ParseStrike for text that is not quadrant notation
var ErrInvalidStrike = errors.New("invalid strike notation")

// FormatStrike converts a heading in degrees to quadrant notation measured
// from the nearer of north and south, e.g. 35 -> "N35E", 325 -> "N35W".
// Equal distances resolve to north. Non-finite headings yield "".
func FormatStrike(heading float64) string {
	if math.IsNaN(heading) || math.IsInf(heading, 0) {
		return ""
	}

	relNorth := spatial.AngularDifferenceDegrees(0, -heading)
	relSouth := spatial.AngularDifferenceDegrees(0, 180-heading)

	rel := relNorth
	if math.Abs(relSouth) < math.Abs(relNorth) {
		rel = relSouth
	}

	dir := "W"
	if rel < 0 {
		dir = "E"
	}
	return fmt.Sprintf("N%d%s", int(math.Round(math.Abs(rel))), dir)
}

// ParseStrike reads "N35E" style notation back to a heading in [0,180].
// Both "N..." forms are accepted since a strike line has two ends.
func ParseStrike(s string) (float64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 3 || s[0] != 'N' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStrike, s)
	}
	dir := s[len(s)-1]
	angle, err := strconv.ParseFloat(s[1:len(s)-1], 64)
	if err != nil || math.IsNaN(angle) || angle < 0 || angle > 90 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStrike, s)
	}

	switch dir {
	case 'E':
		return angle, nil
	case 'W':
		return spatial.NormalizeDegrees(180 - angle), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStrike, s)
	}
}

// FormatAttitude joins strike notation and a rounded dip, e.g. "N35E/20"
func FormatAttitude(strike, dip float64) string {
	s := FormatStrike(strike)
	if s == "" || math.IsNaN(dip) || math.IsInf(dip, 0) {
		return ""
	}
	return fmt.Sprintf("%s/%d", s, int(math.Round(dip)))
}

// DipDirection is the azimuth of steepest descent under the right hand rule
func DipDirection(strike float64) float64 {
	return spatial.NormalizeDegrees(strike + 90)
}

// DipFromTilt returns the plane dip in degrees from device pitch (beta) and
// roll (gamma) in degrees
func DipFromTilt(beta, gamma float64) float64 {
	c := math.Cos(beta*math.Pi/180) * math.Cos(gamma*math.Pi/180)
	c = math.Max(-1, math.Min(1, c))
	dip := math.Acos(c) * 180 / math.Pi
	if dip > 90 {
		dip = 180 - dip
	}
	return dip
}
