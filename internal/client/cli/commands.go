package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
	"github.com/Spielbergo/clipifyit-sub000/internal/common"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

func (a *App) List(ctx context.Context, _ []string) error {
	view := a.board.View()
	if len(view) == 0 {
		printlnFn("(empty)")
		return nil
	}
	for i, e := range view {
		printlnFn(formatEntry(i+1, e, a.board.Selection.Has(models.KeyOf(e))))
	}
	return nil
}

// Add stores the arguments as one entry, or prompts for multi-line text
// when none are given.
func (a *App) Add(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		var err error
		if text, err = GetMultiline(a.input, "Enter text", a.out); err != nil {
			return err
		}
	}
	return a.add(ctx, text)
}

func (a *App) Paste(ctx context.Context, _ []string) error {
	text, err := a.clip.ReadText()
	if err != nil {
		return err
	}
	return a.add(ctx, text)
}

func (a *App) add(ctx context.Context, text string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	err := a.board.Add(ctx, text)
	switch {
	case errors.Is(err, common.ErrDuplicateEntry):
		printlnFn("Already in clipboard")
		return nil
	case err != nil:
		return err
	}
	printlnFn("Added")
	return nil
}

func (a *App) Copy(ctx context.Context, args []string) error {
	e, err := a.entryArg(args, "copy <n>")
	if err != nil {
		return err
	}
	if err := a.clip.WriteText(models.TextOf(e)); err != nil {
		return err
	}
	printlnFn("Copied")
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	e, err := a.entryArg(args, "rm <n>")
	if err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.board.Remove(ctx, models.KeyOf(e))
}

func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("edit <n> <text>")
	}
	e, err := a.entryArg(args[:1], "edit <n> <text>")
	if err != nil {
		return err
	}
	return a.edit(ctx, e, models.Edit{Text: strings.Join(args[1:], " ")})
}

// Name sets the entry's label; no label clears it.
func (a *App) Name(ctx context.Context, args []string) error {
	e, err := a.entryArg(args, "name <n> [label]")
	if err != nil {
		return err
	}
	name := strings.Join(args[1:], " ")
	return a.edit(ctx, e, models.Edit{Text: models.TextOf(e), Name: &name})
}

// Color sets the label color; no color clears it.
func (a *App) Color(ctx context.Context, args []string) error {
	e, err := a.entryArg(args, "color <n> [color]")
	if err != nil {
		return err
	}
	var color string
	if len(args) > 1 {
		color = strings.ToLower(args[1])
		if !slices.Contains(labelColors, color) {
			return fmt.Errorf("unknown color %q, use one of %s", color, strings.Join(labelColors, ", "))
		}
	}
	return a.edit(ctx, e, models.Edit{Text: models.TextOf(e), LabelColor: &color})
}

// Done toggles the completed mark.
func (a *App) Done(ctx context.Context, args []string) error {
	e, err := a.entryArg(args, "done <n>")
	if err != nil {
		return err
	}
	var completed bool
	switch v := e.(type) {
	case models.LocalEntry:
		completed = !v.Completed
	case models.RemoteEntry:
		completed = !v.Completed
	}
	return a.edit(ctx, e, models.Edit{Text: models.TextOf(e), Completed: &completed})
}

func (a *App) edit(ctx context.Context, e models.Entry, edit models.Edit) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	err := a.board.Edit(ctx, models.KeyOf(e), edit)
	if errors.Is(err, common.ErrDuplicateEntry) {
		printlnFn("Already in clipboard")
		return nil
	}
	return err
}

func (a *App) Sort(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("sort newest|oldest|az|za|custom")
	}
	mode, err := models.ParseSortMode(args[0])
	if err != nil {
		return err
	}
	return a.board.SetSortMode(mode)
}

// Select toggles one entry and makes it the range anchor.
func (a *App) Select(_ context.Context, args []string) error {
	i, err := a.positionArg(args, "select <n>")
	if err != nil {
		return err
	}
	key := models.KeysOf(a.board.View())[i]
	a.board.Click(i, false, !a.board.Selection.Has(key))
	return nil
}

// Shift selects from the anchor to the given entry.
func (a *App) Shift(_ context.Context, args []string) error {
	i, err := a.positionArg(args, "shift <n>")
	if err != nil {
		return err
	}
	a.board.Click(i, true, true)
	return nil
}

func (a *App) All(context.Context, []string) error {
	a.board.SelectAll()
	return nil
}

func (a *App) None(context.Context, []string) error {
	a.board.DeselectAll()
	return nil
}

// Delete removes every selected entry after confirmation.
func (a *App) Delete(ctx context.Context, _ []string) error {
	n := len(a.board.Selected())
	if n == 0 {
		printlnFn("Nothing selected")
		return nil
	}
	if !GetConfirmation(a.input, fmt.Sprintf("Delete %d entries?", n), a.out) {
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	deleted, err := a.board.BulkDeleteSelected(ctx)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Deleted %d", deleted))
	return nil
}

// Drag moves the entry at one position to another.
func (a *App) Drag(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("drag <from> <to>")
	}
	n := len(a.board.View())
	from, err := parsePosition(args[0], n)
	if err != nil {
		return err
	}
	to, err := parsePosition(args[1], n)
	if err != nil {
		return err
	}
	if err := a.board.StartDrag(from); err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.board.Drop(ctx, to)
}

// Move sends the selection to another project or folder.
func (a *App) Move(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("move <project> [folder]")
	}
	dest := models.NewScope(args[0], "")
	if len(args) == 2 {
		dest = models.NewScope(args[0], args[1])
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	n, err := a.board.MoveSelected(ctx, dest)
	if err != nil {
		return err
	}
	if n == 0 {
		printlnFn("Nothing selected")
		return nil
	}
	printlnFn(fmt.Sprintf("Moved %d to %s", n, dest))
	return nil
}

// Folder switches the folder within the current project; "-" is the root.
func (a *App) Folder(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("folder <id|->")
	}
	scope, ok := a.board.Scope()
	if !ok {
		return errors.New("folders require the pro tier")
	}
	folder := args[0]
	if folder == "-" {
		folder = ""
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.board.SetScope(ctx, models.NewScope(scope.ProjectID, folder))
}

func (a *App) Refresh(ctx context.Context, _ []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.board.Refresh(ctx)
}

func (a *App) positionArg(args []string, form string) (int, error) {
	if len(args) < 1 {
		return 0, usage(form)
	}
	return parsePosition(args[0], len(a.board.View()))
}

func (a *App) entryArg(args []string, form string) (models.Entry, error) {
	i, err := a.positionArg(args, form)
	if err != nil {
		return nil, err
	}
	e, ok := a.board.Entry(i)
	if !ok {
		return nil, common.ErrInvalidIndex
	}
	return e, nil
}
