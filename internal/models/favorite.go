package models

import (
	"time"
)

type Favorite struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user"`
	PropertyID int       `json:"property"`
	CreatedAt  time.Time `json:"created_at"`
}

// FavoriteWithProperty is a favorite expanded with the property's current data.
type FavoriteWithProperty struct {
	ID        int       `json:"id"`
	Property  Property  `json:"property"`
	CreatedAt time.Time `json:"created_at"`
}

type FavoriteRequest struct {
	PropertyID int `json:"property"`
}
