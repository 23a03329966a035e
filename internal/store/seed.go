package store

import (
	"context"
	"fmt"

	"github.com/kubev2v/datatables/internal/models"
)

var seedDepartments = []models.Department{
	{ID: 1, Name: "Engineering"},
	{ID: 2, Name: "Sales"},
	{ID: 3, Name: "Support"},
}

var seedUsers = []struct {
	first, last string
	department  int
}{
	{"john", "smith", 1},
	{"jane", "doe", 2},
	{"johnny", "walker", 1},
	{"ann", "lee", 3},
	{"bob", "john", 2},
	{"carl", "jones", 0},
	{"dana", "white", 1},
	{"erin", "brown", 3},
	{"frank", "miller", 1},
	{"grace", "hopper", 1},
	{"henry", "ford", 2},
	{"irene", "adler", 0},
}

// Seed fills empty users and departments tables with demo rows. Tables
// that already hold data are left untouched.
func (s *Store) Seed(ctx context.Context) error {
	count, err := s.departments.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting departments: %w", err)
	}
	if count == 0 {
		if err := s.departments.Insert(ctx, seedDepartments...); err != nil {
			return fmt.Errorf("seeding departments: %w", err)
		}
	}

	count, err = s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	users := make([]models.User, 0, len(seedUsers))
	for i, u := range seedUsers {
		user := models.User{
			ID:        i + 1,
			FirstName: u.first,
			LastName:  u.last,
			Email:     fmt.Sprintf("%s.%s@example.com", u.first, u.last),
		}
		if u.department > 0 {
			dept := u.department
			user.DepartmentID = &dept
		}
		users = append(users, user)
	}
	if err := s.users.Insert(ctx, users...); err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	return nil
}
