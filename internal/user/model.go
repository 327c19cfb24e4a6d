package user

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           uint
	Name         string
	Email        string
	MobileNumber string
	Password     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RegisterInput struct {
	Name         string
	Email        string
	MobileNumber string
	Password     string
}
