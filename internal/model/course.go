// Package model defines the study-notes data types and their column codecs.
package model

import "time"

// PresetColors are the course colours offered by the client, first is default.
var PresetColors = []string{
	"#DC2626",
	"#EA580C",
	"#D97706",
	"#059669",
	"#0891B2",
	"#2563EB",
	"#7C3AED",
	"#DB2777",
}

// Course groups notes under a label and display colour.
type Course struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code,omitempty"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
