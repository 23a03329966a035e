package test

import (
	"context"
	"database/sql"
)

type Department struct {
	ID   int
	Name string
}

type User struct {
	ID           int
	FirstName    string
	LastName     string
	Email        string
	DepartmentID int
}

var Departments = []Department{
	{1, "Engineering"},
	{2, "Sales"},
	{3, "Support"},
	{4, "Legal"},
}

// Users has no department when DepartmentID is 0.
var Users = []User{
	{1, "john", "smith", "john.smith@example.com", 1},
	{2, "jane", "doe", "jane.doe@example.com", 2},
	{3, "johnny", "walker", "johnny.walker@example.org", 1},
	{4, "ann", "lee", "ann.lee@example.com", 3},
	{5, "bob", "john", "bob.john@example.org", 2},
	{6, "carl", "jones", "carl.jones@example.com", 0},
	{7, "dana", "white", "dana.white@example.com", 1},
	{8, "erin", "brown", "erin.brown@example.org", 3},
	{9, "frank", "miller", "frank.miller@example.com", 1},
	{10, "grace", "hopper", "grace.hopper@example.com", 1},
}

// InsertUsers inserts all test departments and users into the database.
// Tables must exist, see migrations.Run.
func InsertUsers(ctx context.Context, db *sql.DB) error {
	for _, d := range Departments {
		_, err := db.ExecContext(ctx, `INSERT INTO departments (id, name) VALUES (?, ?)`, d.ID, d.Name)
		if err != nil {
			return err
		}
	}

	for _, u := range Users {
		var department any
		if u.DepartmentID > 0 {
			department = u.DepartmentID
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO users (id, first_name, last_name, email, department_id)
			VALUES (?, ?, ?, ?, ?)
		`, u.ID, u.FirstName, u.LastName, u.Email, department)
		if err != nil {
			return err
		}
	}

	return nil
}
