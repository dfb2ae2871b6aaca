package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riowonder/SoloManager-Backend/internal/db"
)

var (
	ErrNotFound        = errors.New("member not found")
	ErrDuplicateRollNo = errors.New("member with this roll number already exists in this gym")
)

const columns = `id, gym_id, roll_no, name, phone_number, height, weight, age, gender, address, created_at, updated_at`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) *Repository {
	return &Repository{db: database}
}

func (r *Repository) Create(ctx context.Context, m *Member) error {
	taken, err := db.Exists(ctx, r.db, `
		SELECT EXISTS(SELECT 1 FROM members WHERE gym_id = $1 AND roll_no = $2)
	`, m.GymID, m.RollNo)
	if err != nil {
		return fmt.Errorf("check roll number: %w", err)
	}
	if taken {
		return ErrDuplicateRollNo
	}

	err = r.db.QueryRowxContext(ctx, `
		INSERT INTO members (id, gym_id, roll_no, name, phone_number, height, weight, age, gender, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+columns+`
	`, m.ID, m.GymID, m.RollNo, m.Name, m.PhoneNumber, m.Height, m.Weight, m.Age, m.Gender, m.Address).StructScan(m)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRollNo
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, gymID, id string) (*Member, error) {
	m := &Member{}
	err := r.db.GetContext(ctx, m, `
		SELECT `+columns+` FROM members WHERE id = $1 AND gym_id = $2
	`, id, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	return m, nil
}

// Exists satisfies the lifecycle engine's member check without exposing the
// whole row.
func (r *Repository) Exists(ctx context.Context, gymID, id string) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS(SELECT 1 FROM members WHERE id = $1 AND gym_id = $2)
	`, id, gymID)
}

// List returns the gym's roster, most recently touched members first.
func (r *Repository) List(ctx context.Context, gymID string) ([]*Member, error) {
	members := []*Member{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT `+columns+` FROM members
		WHERE gym_id = $1
		ORDER BY updated_at DESC
	`, gymID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// Search matches q against name, roll number, phone, gender and address,
// case-insensitively. An empty q returns the whole roster.
func (r *Repository) Search(ctx context.Context, gymID, q string) ([]*Member, error) {
	if q == "" {
		return r.List(ctx, gymID)
	}
	members := []*Member{}
	pattern := "%" + q + "%"
	err := r.db.SelectContext(ctx, &members, `
		SELECT `+columns+` FROM members
		WHERE gym_id = $1
		  AND (name ILIKE $2 OR roll_no ILIKE $2 OR phone_number ILIKE $2
		       OR gender ILIKE $2 OR address ILIKE $2)
		ORDER BY updated_at DESC
	`, gymID, pattern)
	if err != nil {
		return nil, fmt.Errorf("search members: %w", err)
	}
	return members, nil
}

func (r *Repository) Update(ctx context.Context, m *Member) error {
	dup, err := db.Exists(ctx, r.db, `
		SELECT EXISTS(SELECT 1 FROM members WHERE gym_id = $1 AND roll_no = $2 AND id <> $3)
	`, m.GymID, m.RollNo, m.ID)
	if err != nil {
		return fmt.Errorf("check roll number: %w", err)
	}
	if dup {
		return ErrDuplicateRollNo
	}

	err = r.db.QueryRowxContext(ctx, `
		UPDATE members
		SET roll_no = $1, name = $2, phone_number = $3, height = $4, weight = $5,
		    age = $6, gender = $7, address = $8, updated_at = NOW()
		WHERE id = $9 AND gym_id = $10
		RETURNING `+columns+`
	`, m.RollNo, m.Name, m.PhoneNumber, m.Height, m.Weight, m.Age, m.Gender, m.Address,
		m.ID, m.GymID).StructScan(m)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRollNo
		}
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, gymID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM members WHERE id = $1 AND gym_id = $2
	`, id, gymID)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ContactByID feeds the notification gateway: display name and phone
// number for one member. An empty phone number is the caller's problem to
// classify.
func (r *Repository) ContactByID(ctx context.Context, gymID, id string) (name, phone string, err error) {
	var row struct {
		Name        string `db:"name"`
		PhoneNumber string `db:"phone_number"`
	}
	err = r.db.GetContext(ctx, &row, `
		SELECT name, phone_number FROM members WHERE id = $1 AND gym_id = $2
	`, id, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("member contact: %w", err)
	}
	return row.Name, row.PhoneNumber, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// unique_violation
		return pqErr.Code == "23505"
	}
	return false
}
