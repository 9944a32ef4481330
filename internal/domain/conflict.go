package domain

import "time"

// Conflict is a calendar day on which two or more trades are booked.
type Conflict struct {
	Date   time.Time
	Trades []string
}
