package domain

import (
	"sort"
	"time"
)

// Product categories. Every product belongs to exactly one.
const (
	CategoryStyle = "STYLE"
	CategoryFood  = "FOOD"
	CategoryTech  = "TECH"
	CategorySport = "SPORT"
)

// ValidCategories lists every accepted product category.
var ValidCategories = []string{CategoryStyle, CategoryFood, CategoryTech, CategorySport}

// IsValidCategory reports whether c is an accepted category value.
func IsValidCategory(c string) bool {
	for _, v := range ValidCategories {
		if v == c {
			return true
		}
	}
	return false
}

// RecentCommentsCacheSize is the number of newest comments embedded on a
// product record.
const RecentCommentsCacheSize = 10

// Product is a catalogue entry. Stars holds the unrounded mean of all comment
// ratings, 0 while the product has no comments. RecentComments caches the
// newest comments (newest first) so reads of the latest page skip the comment
// table entirely.
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	Category       string    `json:"category"`
	Stars          float64   `json:"stars"`
	RecentComments []Comment `json:"recent_comments"`
	CreatedAt      time.Time `json:"created_at"`
}

// MergeRecentComments returns the cache produced by inserting c into existing:
// newest first by date, ties broken by ID so the cache orders exactly like
// the comment store, capped at RecentCommentsCacheSize. The input slice is
// not modified.
func MergeRecentComments(existing []Comment, c Comment) []Comment {
	merged := make([]Comment, 0, len(existing)+1)
	merged = append(merged, existing...)
	merged = append(merged, c)

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.After(merged[j].Date)
		}
		return merged[i].ID < merged[j].ID
	})

	if len(merged) > RecentCommentsCacheSize {
		merged = merged[:RecentCommentsCacheSize]
	}
	return merged
}
