package owner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound       = errors.New("owner not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrGymUnavailable = errors.New("associated gym not found")
)

const columns = `id, name, gym_name, email, password_hash, role, gym_id, created_at, updated_at`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, o *Owner) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO owners (id, name, gym_name, email, password_hash, role, gym_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+columns+`
	`, o.ID, o.Name, o.GymName, o.Email, o.PasswordHash, o.Role, o.GymID).StructScan(o)
	if err != nil {
		return fmt.Errorf("insert owner: %w", err)
	}
	return nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*Owner, error) {
	o := &Owner{}
	err := r.db.GetContext(ctx, o, `
		SELECT `+columns+` FROM owners WHERE email = $1
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find owner by email: %w", err)
	}
	return o, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*Owner, error) {
	o := &Owner{}
	err := r.db.GetContext(ctx, o, `
		SELECT `+columns+` FROM owners WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find owner: %w", err)
	}
	return o, nil
}

// GymNameByID resolves a tenant id to its gym name for notification
// templates. The tenant id is the owning admin's id.
func (r *Repository) GymNameByID(ctx context.Context, gymID string) (string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `
		SELECT gym_name FROM owners WHERE id = $1 AND role = 'admin'
	`, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrGymUnavailable
	}
	if err != nil {
		return "", fmt.Errorf("find gym name: %w", err)
	}
	return name, nil
}
