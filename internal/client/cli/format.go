package cli

import (
	"fmt"
	"strings"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
)

const previewWidth = 60

var labelColors = []string{"red", "orange", "yellow", "green", "blue", "purple", "gray"}

// formatEntry renders one list line: position, selection box, completion
// mark, preview and labels.
func formatEntry(pos int, e models.Entry, selected bool) string {
	box := "[ ]"
	if selected {
		box = "[x]"
	}

	var (
		name, color string
		completed   bool
		status      models.Status
	)
	switch v := e.(type) {
	case models.LocalEntry:
		name, color, completed = v.Name, v.LabelColor, v.Completed
	case models.RemoteEntry:
		name, color, completed, status = v.Name, v.LabelColor, v.Completed, v.Status
	}

	mark := " "
	if completed {
		mark = "✓"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%3d %s %s %s", pos, box, mark, preview(models.TextOf(e)))
	if name != "" {
		fmt.Fprintf(&b, "  (%s)", name)
	}
	if color != "" {
		fmt.Fprintf(&b, "  #%s", color)
	}
	if status != models.StatusConfirmed {
		fmt.Fprintf(&b, "  [%s]", status)
	}
	return b.String()
}

func preview(text string) string {
	line, _, multi := strings.Cut(text, "\n")
	r := []rune(line)
	if len(r) > previewWidth {
		return string(r[:previewWidth-1]) + "…"
	}
	if multi {
		return line + " …"
	}
	return line
}
