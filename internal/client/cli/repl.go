package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Paste(ctx context.Context, args []string) error
	Copy(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Name(ctx context.Context, args []string) error
	Color(ctx context.Context, args []string) error
	Done(ctx context.Context, args []string) error
	Sort(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Shift(ctx context.Context, args []string) error
	All(ctx context.Context, args []string) error
	None(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Drag(ctx context.Context, args []string) error
	Move(ctx context.Context, args []string) error
	Folder(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  (l)ist                 show the clipboard
  add [text]             add text; without arguments read lines until an empty one
  paste                  add the system clipboard contents
  copy <n>               copy entry n to the system clipboard
  rm <n>                 remove entry n
  edit <n> <text>        replace the text of entry n
  name <n> [label]       set or clear the label of entry n
  color <n> [color]      set or clear the label color of entry n
  done <n>               toggle the completed mark of entry n
  sort <mode>            newest, oldest, az, za or custom
  select <n>             toggle selection of entry n
  shift <n>              select from the last selected entry to n
  all | none             select or deselect everything
  delete                 delete the selected entries
  drag <from> <to>       move an entry (or the selection) to a new position
  move <project> [dir]   move the selected entries to another project or folder
  folder <id|->          switch folder, '-' for the project root
  refresh                reload from the store
  exit | quit            leave the program`

// runREPL reads commands from scanner until EOF or "exit".
//
// Each line is split into whitespace separated fields; the first one picks
// the handler and the rest are passed as arguments. Handler errors are
// printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	handlers := map[string]func(context.Context, []string) error{
		"l":       a.List,
		"list":    a.List,
		"add":     a.Add,
		"paste":   a.Paste,
		"copy":    a.Copy,
		"rm":      a.Remove,
		"edit":    a.Edit,
		"name":    a.Name,
		"color":   a.Color,
		"done":    a.Done,
		"sort":    a.Sort,
		"select":  a.Select,
		"shift":   a.Shift,
		"all":     a.All,
		"none":    a.None,
		"delete":  a.Delete,
		"drag":    a.Drag,
		"move":    a.Move,
		"folder":  a.Folder,
		"refresh": a.Refresh,
	}

	for {
		printlnFn(fmt.Sprintf("clip> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		h, ok := handlers[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := h(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}
