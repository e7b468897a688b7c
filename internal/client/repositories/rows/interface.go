package rows

import (
	"context"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
)

// Repository is the Row Store used by the sync engine.
type Repository interface {
	// Select returns rows matching f in the requested order.
	Select(ctx context.Context, f Filter) ([]models.Row, error)

	// Insert stores a new row, assigning an id when empty, and returns the
	// stored row including its creation time.
	Insert(ctx context.Context, row models.Row) (models.Row, error)

	// Update applies a partial update. A missing id is common.ErrorNotFound.
	Update(ctx context.Context, id string, patch models.Patch) error

	// UpdateMany applies every update or none of them.
	UpdateMany(ctx context.Context, updates []Update) error

	// Delete removes all given ids in one call. Unknown ids are ignored.
	Delete(ctx context.Context, ids ...string) error
}

// Update is one row's partial update within UpdateMany.
type Update struct {
	ID    string
	Patch models.Patch
}

// Ordering columns accepted by Filter.OrderBy.
const (
	OrderByOrder     = "order"
	OrderByCreatedAt = "created_at"
)

// Filter selects rows. An empty ProjectID matches every project; FolderID
// nil matches folder_id IS NULL unless AnyFolder is set.
type Filter struct {
	ProjectID string
	FolderID  *string
	AnyFolder bool
	IDs       []string
	OrderBy   string
	Desc      bool
}

// ScopeFilter selects one scope, highest order first.
func ScopeFilter(s models.Scope) Filter {
	return Filter{ProjectID: s.ProjectID, FolderID: s.FolderID, OrderBy: OrderByOrder, Desc: true}
}

// IDFilter selects rows by id regardless of scope.
func IDFilter(ids ...string) Filter {
	return Filter{AnyFolder: true, IDs: ids, OrderBy: OrderByOrder, Desc: true}
}
