package redundancy

import "context"

type RedundancyRepository interface {
	Create(ctx context.Context, red Redundancy) (Redundancy, error)
	GetByID(ctx context.Context, id string) (Redundancy, error)
	List(ctx context.Context, filter RedundancyFilter) ([]Redundancy, error)
	Update(ctx context.Context, red Redundancy) (Redundancy, error)
}
