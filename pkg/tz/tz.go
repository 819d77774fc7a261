package tz

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// Load returns the location named by an IANA name ("Europe/Paris").
// An empty name or "UTC" gives time.UTC.
func Load(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

// Stamp formats t in loc the way reports print dates.
func Stamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04 MST")
}
