package model

import "github.com/google/uuid"

// NewCategoryID returns a unique, time-ordered category id.
func NewCategoryID() string {
	return "cat_" + timeOrderedSuffix()
}

// NewBookmarkID returns a unique, time-ordered bookmark id.
func NewBookmarkID() string {
	return "bm_" + timeOrderedSuffix()
}

// timeOrderedSuffix uses a version 7 UUID: a millisecond timestamp followed by random bits.
func timeOrderedSuffix() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Ptr returns a pointer to v. Handy for building partial updates.
func Ptr[T any](v T) *T {
	return &v
}
