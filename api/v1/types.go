package v1

import "time"

// Table describes a grid served under /tables/{name}.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	// Rows is the last counted size of the grid's base table.
	Rows *int `json:"rows,omitempty"`
}

type TableList struct {
	Tables []Table `json:"tables"`
}

type TableStats struct {
	Name      string    `json:"name"`
	Rows      int       `json:"rows"`
	Error     *string   `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type StatsResponse struct {
	Tables []TableStats `json:"tables"`
}

type Health struct {
	Status string `json:"status"`
}
