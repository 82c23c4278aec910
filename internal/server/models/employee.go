package models

import "time"

// Employee is a worker record ("funcionarios"). Only the columns the punch
// engine needs are modeled here.
type Employee struct {
	ID          int64
	CompanyCode string
	Login       string
	Name        string
	// PasswordHash is a bcrypt hash. Legacy rows carry the PHP "$2y$"
	// prefix variant.
	PasswordHash string
	LocationID   *int64
	FunctionID   *int64
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

// EmployeeProfile is an Employee joined with the display names of its
// reference records, for the profile endpoint.
type EmployeeProfile struct {
	Employee
	LocationName string
	FunctionName string
}
