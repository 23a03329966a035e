package models

import "time"

type Department struct {
	ID   int
	Name string
}

type User struct {
	ID           int
	FirstName    string
	LastName     string
	Email        string
	DepartmentID *int
	CreatedAt    time.Time
}
