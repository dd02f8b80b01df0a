// Package timeutil converts between civil time and the astronomical time
// scales microlensing parameters are quoted in.
package timeutil

import (
	"fmt"
	"strconv"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
)

// Microlensing epochs are quoted as Modified Julian Dates on the TDB scale.
// Ephemeris queries want absolute Julian Dates, so conversions go through
// the standard 2,400,000.5 day offset (base.JMod).

// MJDToJD converts a Modified Julian Date to a Julian Date.
func MJDToJD(mjd float64) float64 {
	return mjd + base.JMod
}

// JDToMJD converts a Julian Date to a Modified Julian Date.
func JDToMJD(jd float64) float64 {
	return jd - base.JMod
}

// MJDToTime converts a Modified Julian Date to civil time (UTC). The TDB-UTC
// offset (about a minute) is ignored; this is for display, not ephemerides.
func MJDToTime(mjd float64) time.Time {
	return julian.JDToTime(MJDToJD(mjd)).UTC()
}

// TimeToMJD converts civil time to a Modified Julian Date.
func TimeToMJD(t time.Time) float64 {
	return JDToMJD(julian.TimeToJD(t))
}

// ParseEpoch reads an epoch given either as a bare MJD number or as an
// RFC 3339 timestamp, returning the MJD.
func ParseEpoch(s string) (float64, error) {
	if mjd, err := strconv.ParseFloat(s, 64); err == nil {
		return mjd, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("epoch %q is neither an MJD nor an RFC 3339 timestamp: %w", s, err)
	}
	return TimeToMJD(t), nil
}
