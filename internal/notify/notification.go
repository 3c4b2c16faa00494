// Package notify owns the ordered notification collection and its
// per-category settings, persisted as JSON in the key-value store.
package notify

import "time"

// Category buckets a notification by the dashboard view it concerns.
type Category string

const (
	CategoryFlight   Category = "flight"
	CategoryMarket   Category = "market"
	CategoryWeather  Category = "weather"
	CategoryCurrency Category = "currency"
)

// ValidCategory reports whether c is one of the four known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryFlight, CategoryMarket, CategoryWeather, CategoryCurrency:
		return true
	}
	return false
}

// Priority orders how prominently a notification is surfaced.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Notification is one alert record. IDs are caller-supplied and not
// validated for uniqueness. The wire names match the collection the
// original dashboard stored, so existing persisted data deserialises.
type Notification struct {
	ID        int64     `json:"id"`
	Category  Category  `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	Priority  Priority  `json:"priority"`
}

// Filter selects a subset of the collection.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
)

func (f Filter) matches(n Notification) bool {
	switch f {
	case FilterAll, "":
		return true
	case FilterUnread:
		return !n.Read
	default:
		return n.Category == Category(f)
	}
}

// Counts summarises the collection for the stats panel.
type Counts struct {
	Total        int `json:"total"`
	Unread       int `json:"unread"`
	HighPriority int `json:"highPriority"`
}
