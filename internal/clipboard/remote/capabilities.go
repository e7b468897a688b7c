package remote

import (
	"regexp"
	"slices"
	"sync"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
)

// Optional row columns a backend may not have.
const (
	ColumnName       = "name"
	ColumnLabelColor = "label_color"
	ColumnCompleted  = "completed"
)

var optionalColumns = []string{ColumnName, ColumnLabelColor, ColumnCompleted}

var missingColumnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)column "?([a-z_][a-z0-9_]*)"?(?: of relation "?[a-z0-9_.]+"?)? does not exist`),
	regexp.MustCompile(`(?i)could not find the '([a-z_][a-z0-9_]*)' column`),
}

// MissingColumn extracts the column name from a "column does not exist"
// store error.
func MissingColumn(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()
	for _, re := range missingColumnPatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// IsOptionalColumn reports whether an update can be retried without column.
func IsOptionalColumn(column string) bool {
	return slices.Contains(optionalColumns, column)
}

// Sets reports whether p writes the optional column.
func Sets(p models.Patch, column string) bool {
	switch column {
	case ColumnName:
		return p.Name != nil
	case ColumnLabelColor:
		return p.LabelColor != nil
	case ColumnCompleted:
		return p.Completed != nil
	}
	return false
}

// Capabilities records which optional columns the backend supports. A
// column, once disabled, stays disabled for the life of the value.
type Capabilities struct {
	mu       sync.RWMutex
	disabled map[string]bool
}

func NewCapabilities() *Capabilities {
	return &Capabilities{disabled: map[string]bool{}}
}

func (c *Capabilities) Enabled(column string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.disabled[column]
}

// Disable turns column off and reports whether it was on.
func (c *Capabilities) Disable(column string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled[column] {
		return false
	}
	c.disabled[column] = true
	return true
}

// Disabled lists the disabled columns in a stable order.
func (c *Capabilities) Disabled() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, col := range optionalColumns {
		if c.disabled[col] {
			out = append(out, col)
		}
	}
	return out
}

// Strip clears the patch fields for disabled columns.
func (c *Capabilities) Strip(p models.Patch) models.Patch {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.disabled[ColumnName] {
		p.Name = nil
	}
	if c.disabled[ColumnLabelColor] {
		p.LabelColor = nil
	}
	if c.disabled[ColumnCompleted] {
		p.Completed = nil
	}
	return p
}
