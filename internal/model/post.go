package model

import "time"

// Post is a location-tagged notice. Author and location are copied from the
// author's profile at creation time and never follow later profile edits.
type Post struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Author         string    `json:"author" gorm:"size:255;not null"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	ImageReference string    `json:"image_reference,omitempty" gorm:"size:1024"`
	PinCode        string    `json:"pin_code" gorm:"size:16;not null;index:idx_posts_location"`
	Area           string    `json:"area" gorm:"size:255;not null;index:idx_posts_location"`
	CreatedAt      time.Time `json:"timestamp"`
}

// Location returns the post's location key.
func (p *Post) Location() Location {
	return Location{PinCode: p.PinCode, Area: p.Area}
}

// Location is the (pin code, area) pair that scopes a feed.
type Location struct {
	PinCode string `json:"pin_code"`
	Area    string `json:"area"`
}

// String renders the key as "pin_code/area".
func (l Location) String() string {
	return l.PinCode + "/" + l.Area
}
