package model

import "time"

// MaxCategoryNameLength is the longest allowed category name.
const MaxCategoryNameLength = 50

// Category groups related products on the menu.
type Category struct {
	CreatedAt   time.Time
	Name        string
	Description string
	Image       []byte
	ID          int64
}
