package rows

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
	"github.com/Spielbergo/clipifyit-sub000/internal/common"
	"github.com/Spielbergo/clipifyit-sub000/internal/dbx"
)

const selectColumns = `id, project_id, folder_id, text, name, label_color, completed, "order", created_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Select(ctx context.Context, f Filter) ([]models.Row, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ProjectID != "" {
		where = append(where, "project_id = "+arg(f.ProjectID))
	}
	if !f.AnyFolder {
		if f.FolderID == nil {
			where = append(where, "folder_id IS NULL")
		} else {
			where = append(where, "folder_id = "+arg(*f.FolderID))
		}
	}
	if len(f.IDs) > 0 {
		ph := make([]string, len(f.IDs))
		for i, id := range f.IDs {
			ph[i] = arg(id)
		}
		where = append(where, "id IN ("+strings.Join(ph, ", ")+")")
	}

	query := `SELECT ` + selectColumns + ` FROM clipboard_items`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY ` + orderClause(f)

	rs, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select rows: %w", err)
	}
	defer rs.Close()

	var result []models.Row
	for rs.Next() {
		var (
			row        models.Row
			folderID   sql.NullString
			name       sql.NullString
			labelColor sql.NullString
			completed  sql.NullBool
			createdAt  sql.NullTime
		)
		if err := rs.Scan(&row.ID, &row.ProjectID, &folderID, &row.Text, &name, &labelColor,
			&completed, &row.Order, &createdAt); err != nil {
			return nil, err
		}
		if folderID.Valid {
			f := folderID.String
			row.FolderID = &f
		}
		row.Name = name.String
		row.LabelColor = labelColor.String
		row.Completed = completed.Bool
		row.CreatedAt = createdAt.Time
		result = append(result, row)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Insert writes only the columns every deployment has; labels are set by a
// later Update.
func (r *PostgresRepository) Insert(ctx context.Context, row models.Row) (models.Row, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	query := `
		INSERT INTO clipboard_items (id, project_id, folder_id, text, "order")
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, query, row.ID, row.ProjectID, row.FolderID, row.Text, row.Order).Scan(&createdAt)
	if err != nil {
		return models.Row{}, fmt.Errorf("failed to insert row: %w", err)
	}
	row.CreatedAt = createdAt
	row.Status = models.StatusConfirmed
	return row, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, p models.Patch) error {
	if p.IsEmpty() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if p.Text != nil {
		set("text", *p.Text)
	}
	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.LabelColor != nil {
		set("label_color", *p.LabelColor)
	}
	if p.Completed != nil {
		set("completed", *p.Completed)
	}
	if p.Order != nil {
		set(`"order"`, *p.Order)
	}
	if p.Scope != nil {
		set("project_id", p.Scope.ProjectID)
		set("folder_id", p.Scope.FolderID)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE clipboard_items SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update row %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("row %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

// UpdateMany runs the updates in one transaction. When the repository is
// already bound to a transaction the updates join it.
func (r *PostgresRepository) UpdateMany(ctx context.Context, updates []Update) error {
	if len(updates) == 0 {
		return nil
	}
	apply := func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewPostgresRepository(tx)
		for _, u := range updates {
			if err := repo.Update(ctx, u.ID, u.Patch); err != nil {
				return err
			}
		}
		return nil
	}
	if db, ok := r.db.(*sql.DB); ok {
		return dbx.WithTx(ctx, db, nil, apply)
	}
	return apply(ctx, r.db)
}

func (r *PostgresRepository) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `DELETE FROM clipboard_items WHERE id IN (` + strings.Join(ph, ", ") + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete rows: %w", err)
	}
	return nil
}

func orderClause(f Filter) string {
	col := `"order"`
	if f.OrderBy == OrderByCreatedAt {
		col = "created_at"
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	// id keeps equal orders deterministic between refetches
	return col + " " + dir + ", id " + dir
}
