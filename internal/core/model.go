package core

import (
	"time"
)

// Status is the observed availability of a watched item
type Status string

const (
	// StatusUnknown is the zero value for items never observed; it is never persisted
	StatusUnknown Status = ""
	// StatusInStock means the page showed a purchase affordance
	StatusInStock Status = "in_stock"
	// StatusOutOfStock means the page showed no affordance or an unavailability notice
	StatusOutOfStock Status = "out_of_stock"
	// StatusError means the page could not be fetched or evaluated
	StatusError Status = "error"
)

// Item represents a watched product page; identity is the URL
type Item struct {
	URL  string
	Name string
}

// Page represents a rendered product page handed to the classifier
type Page struct {
	URL       string
	HTML      string
	FetchedAt time.Time
}

// CheckResult represents the outcome of a single availability check
type CheckResult struct {
	Status    Status
	Indicator string
	CheckedAt time.Time
	Elapsed   time.Duration
}

// StatusChange records a persisted transition for an item
type StatusChange struct {
	URL  string
	From Status
	To   Status
	At   time.Time
}
