package domain

import "time"

// Location is a single position report from a device.
type Location struct {
	ID        string
	UserID    *string // nil when the report was accepted without authentication
	Device    string
	Lat       float64
	Lon       float64
	Timestamp time.Time
}
