package models

import "time"

// GridSummary describes a registered grid to API clients.
type GridSummary struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// TableStats is the last known row count of a grid source.
type TableStats struct {
	Name      string    `json:"name"`
	Rows      int       `json:"rows"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Export is a rendered spreadsheet of a grid.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}
