package owner

import "time"

// Owner is a gym account holder. Admins own the gym (their id doubles as
// the tenant key); managers belong to an admin's gym and share its scope.
type Owner struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	GymName      string    `db:"gym_name" json:"gym_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	GymID        string    `db:"gym_id" json:"gym_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	GymName  string `json:"gym_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
