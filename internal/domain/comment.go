package domain

import "time"

// Rating bounds for a comment.
const (
	MinStars = 1
	MaxStars = 5
)

// Comment is a product review. Stars is an integer rating between MinStars
// and MaxStars inclusive.
type Comment struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Stars     int       `json:"stars"`
	Date      time.Time `json:"date"`
}
