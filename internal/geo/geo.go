// Package geo parses geographic coordinates: latitude and longitude in
// decimal or degree-minute-second notation, and altitude in meters or feet.
package geo

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Axis names a coordinate axis. Its string form is the type name used in
// BadParameterValue errors.
type Axis string

const (
	Latitude  Axis = "latitude"
	Longitude Axis = "longitude"
	Altitude  Axis = "altitude"
)

// Valid reports whether a is a known axis.
func (a Axis) Valid() bool {
	switch a {
	case Latitude, Longitude, Altitude:
		return true
	}
	return false
}

// ErrBadCoordinate is wrapped by every parse failure in this package.
var ErrBadCoordinate = errors.New("bad coordinate")

// FeetToMeters converts feet to meters.
const FeetToMeters = 0.3048

var (
	// 45, -45.5, 45.5N, S 45.5
	decimalRe = regexp.MustCompile(`^([NSEW])?\s*(-?(?:\d+(?:\.\d+)?|\.\d+))\s*°?\s*([NSEW])?$`)

	// 45°30'15"N, 45 30 15 N, 45d 30m W; matched after upper-casing.
	dmsRe = regexp.MustCompile(
		`^([NSEW])?\s*(\d+)\s*(?:°|D|DEG|\s)\s*(\d+(?:\.\d+)?)\s*(?:'|′|M|MIN)?\s*` +
			`(?:(\d+(?:\.\d+)?)\s*(?:"|″|'')?)?\s*([NSEW])?$`)

	altitudeRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*(m|meters?|ft|feet|')?$`)
)

// Parse dispatches on axis. Latitude and longitude return degrees rounded to
// four places; altitude returns whole meters.
func Parse(axis Axis, s string) (float64, error) {
	switch axis {
	case Latitude:
		return ParseLatitude(s)
	case Longitude:
		return ParseLongitude(s)
	case Altitude:
		m, err := ParseAltitude(s)
		return float64(m), err
	}
	return 0, fmt.Errorf("%w: unknown axis %q", ErrBadCoordinate, axis)
}

// ParseLatitude parses a latitude in [-90, 90]. A trailing or leading S
// negates the value; E and W are rejected.
func ParseLatitude(s string) (float64, error) {
	return parseAngle(s, 90, "N", "S")
}

// ParseLongitude parses a longitude in [-180, 180]. A trailing or leading W
// negates the value; N and S are rejected.
func ParseLongitude(s string) (float64, error) {
	return parseAngle(s, 180, "E", "W")
}

func parseAngle(s string, limit float64, pos, neg string) (float64, error) {
	raw := s
	s = strings.ToUpper(strings.TrimSpace(s))

	var (
		v         float64
		pre, post string
	)
	if m := decimalRe.FindStringSubmatch(s); m != nil {
		pre, post = m[1], m[3]
		v, _ = strconv.ParseFloat(m[2], 64)
	} else if m := dmsRe.FindStringSubmatch(s); m != nil {
		pre, post = m[1], m[5]
		deg, _ := strconv.ParseFloat(m[2], 64)
		min, _ := strconv.ParseFloat(m[3], 64)
		var sec float64
		if m[4] != "" {
			sec, _ = strconv.ParseFloat(m[4], 64)
		}
		if min >= 60 || sec >= 60 {
			return 0, fmt.Errorf("%w: %q", ErrBadCoordinate, raw)
		}
		v = deg + min/60 + sec/3600
	} else {
		return 0, fmt.Errorf("%w: %q", ErrBadCoordinate, raw)
	}

	if pre != "" && post != "" {
		return 0, fmt.Errorf("%w: %q has two directions", ErrBadCoordinate, raw)
	}
	switch dir := pre + post; dir {
	case "":
	case pos:
	case neg:
		v = -v
	default:
		return 0, fmt.Errorf("%w: %q has direction %s", ErrBadCoordinate, raw, dir)
	}
	if (pre != "" || post != "") && strings.HasPrefix(strings.TrimLeft(s, "NSEW "), "-") {
		return 0, fmt.Errorf("%w: %q has both sign and direction", ErrBadCoordinate, raw)
	}

	if v < -limit || v > limit {
		return 0, fmt.Errorf("%w: %q out of range", ErrBadCoordinate, raw)
	}
	return math.Round(v*1e4) / 1e4, nil
}

// ParseAltitude parses meters (default unit) or feet and returns whole meters.
func ParseAltitude(s string) (int64, error) {
	m := altitudeRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}
	v, _ := strconv.ParseFloat(m[1], 64)
	switch m[2] {
	case "ft", "feet", "'":
		v *= FeetToMeters
	}
	return int64(math.Round(v)), nil
}
