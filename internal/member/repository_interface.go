package member

import "context"

type Store interface {
	Create(ctx context.Context, m *Member) error
	FindByID(ctx context.Context, gymID, id string) (*Member, error)
	Exists(ctx context.Context, gymID, id string) (bool, error)
	List(ctx context.Context, gymID string) ([]*Member, error)
	Search(ctx context.Context, gymID, q string) ([]*Member, error)
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, gymID, id string) error
	ContactByID(ctx context.Context, gymID, id string) (name, phone string, err error)
}
