package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dalemusser/stratadrive/internal/app/bootstrap"
	"github.com/dalemusser/stratadrive/internal/app/features/browse"
	"github.com/dalemusser/stratadrive/internal/app/features/shared"
	"github.com/dalemusser/stratadrive/internal/app/features/uploads"
	"github.com/dalemusser/stratadrive/internal/app/system/fileinfo"
	"github.com/dalemusser/stratadrive/internal/app/system/timeouts"
	"github.com/dalemusser/stratadrive/internal/domain/models"
)

// shell is a line-oriented front end over the feature controllers. It
// holds no domain state of its own: every command maps to a controller
// call and the next prompt re-reads the controllers.
type shell struct {
	deps *bootstrap.Deps
	in   *bufio.Scanner
	out  io.Writer
}

func newShell(deps *bootstrap.Deps, in io.Reader, out io.Writer) *shell {
	return &shell{
		deps: deps,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

func (s *shell) run() error {
	s.listWithTimeout()

	for {
		fmt.Fprintf(s.out, "%s> ", s.prompt())
		if !s.in.Scan() {
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		s.dispatch(cmd, args)
	}
}

func (s *shell) prompt() string {
	nav := s.deps.Browse.Nav()
	if nav.Searching() {
		return "search:" + nav.SearchQuery
	}
	names := make([]string, len(nav.Trail))
	for i, crumb := range nav.Trail {
		names[i] = crumb.Name
	}
	return strings.Join(names, "/")
}

func (s *shell) dispatch(cmd string, args []string) {
	switch cmd {
	case "help":
		s.printHelp()
	case "ls":
		s.listWithTimeout()
		s.printListing(s.deps.Browse.Listing())
	case "cd":
		s.cd(args)
	case "up":
		s.jumpUp()
	case "open":
		s.open(args)
	case "search":
		s.search(args)
	case "sort":
		s.sort(args)
	case "mkdir":
		s.mkdir(args)
	case "rename":
		s.rename(args)
	case "rm":
		s.remove(args)
	case "put":
		s.put(args)
	case "share":
		s.share(args)
	case "link":
		s.link(args)
	case "trash":
		s.trashCmd(args)
	case "shared":
		s.sharedCmd(args)
	case "logout":
		s.logout()
	default:
		fmt.Fprintf(s.out, "unknown command %q; try help\n", cmd)
	}
}

func (s *shell) printHelp() {
	fmt.Fprint(s.out, `commands:
  ls                         list the current folder (or search results)
  cd <folder>                enter a folder by name
  up                         go to the parent breadcrumb
  cd /                       jump back to My Files
  open <file>                print a temporary download URL
  search <text>              flat search across all files; "search" alone clears
  sort name-asc|name-desc|date-asc|date-desc
  mkdir <name>               create a folder here
  rename <old> <new>         rename an item
  rm <name>                  move an item to the trash
  put <path> [path...]       upload local files here
  share <name> <email> <viewer|editor>
  link <file>                mint a public link
  trash ls|restore <name>|purge <name>
  shared ls|cd <folder>
  logout                     end the session
  quit
`)
}

// listWithTimeout refreshes the browse listing under the list deadline.
func (s *shell) listWithTimeout() {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.List(), s.deps.Logger, "list")
	defer cancel()
	s.deps.Browse.Refresh(ctx)
}

func (s *shell) mutateCtx(op string) (context.Context, context.CancelFunc) {
	return timeouts.WithTimeout(context.Background(), timeouts.Mutate(), s.deps.Logger, op)
}

func (s *shell) printListing(l browse.Listing) {
	switch l.Phase {
	case browse.PhaseFailed:
		fmt.Fprintln(s.out, "listing failed:", l.Err)
		if len(l.Items) > 0 {
			fmt.Fprintln(s.out, "showing previous results:")
		}
	case browse.PhaseLoading:
		fmt.Fprintln(s.out, "loading...")
	}

	if len(l.Items) == 0 && l.Phase == browse.PhaseReady {
		fmt.Fprintln(s.out, "(empty)")
		return
	}
	for _, item := range l.Items {
		if item.Type == models.ItemFolder {
			fmt.Fprintf(s.out, "  %-30s  folder\n", item.Name+"/")
			continue
		}
		fmt.Fprintf(s.out, "  %-30s  %-6s  %s\n",
			item.Name,
			fileinfo.FormatSize(item.File.Size),
			fileinfo.IconFor(item.File.FileType))
	}
}

// findItem resolves a name against the last fetched listing.
func findItem(l browse.Listing, name string) (models.Item, bool) {
	for _, item := range l.Items {
		if item.Name == name {
			return item, true
		}
	}
	return models.Item{}, false
}

func (s *shell) cd(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: cd <folder>")
		return
	}

	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.List(), s.deps.Logger, "cd")
	defer cancel()

	if args[0] == "/" {
		if err := s.deps.Browse.JumpToBreadcrumb(ctx, 0); err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		s.printListing(s.deps.Browse.Listing())
		return
	}

	item, ok := findItem(s.deps.Browse.Listing(), args[0])
	if !ok {
		fmt.Fprintf(s.out, "no such item %q here\n", args[0])
		return
	}
	if err := s.deps.Browse.EnterFolder(ctx, item); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.printListing(s.deps.Browse.Listing())
}

func (s *shell) jumpUp() {
	nav := s.deps.Browse.Nav()
	if len(nav.Trail) < 2 {
		fmt.Fprintln(s.out, "already at My Files")
		return
	}

	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.List(), s.deps.Logger, "up")
	defer cancel()
	if err := s.deps.Browse.JumpToBreadcrumb(ctx, len(nav.Trail)-2); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.printListing(s.deps.Browse.Listing())
}

func (s *shell) open(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: open <file>")
		return
	}
	item, ok := findItem(s.deps.Browse.Listing(), args[0])
	if !ok {
		fmt.Fprintf(s.out, "no such item %q here\n", args[0])
		return
	}

	ctx, cancel := s.mutateCtx("open")
	defer cancel()
	u, err := s.deps.Browse.OpenFile(ctx, item)
	if err != nil {
		return // already notified
	}
	fmt.Fprintln(s.out, u)
}

func (s *shell) search(args []string) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.List(), s.deps.Logger, "search")
	defer cancel()
	s.deps.Browse.SetSearchQuery(ctx, strings.Join(args, " "))
	s.printListing(s.deps.Browse.Listing())
}

func (s *shell) sort(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(s.out, "current sort: %s\n", s.deps.Browse.Sort())
		return
	}
	opt, err := models.ParseSortOption(args[0])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.List(), s.deps.Logger, "sort")
	defer cancel()
	s.deps.Browse.SetSort(ctx, opt)
	s.printListing(s.deps.Browse.Listing())
}

func (s *shell) mkdir(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "usage: mkdir <name>")
		return
	}

	ctx, cancel := s.mutateCtx("mkdir")
	defer cancel()
	_ = s.deps.Browse.CreateFolder(ctx, strings.Join(args, " "))
}

func (s *shell) rename(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "usage: rename <old> <new>")
		return
	}
	item, ok := findItem(s.deps.Browse.Listing(), args[0])
	if !ok {
		fmt.Fprintf(s.out, "no such item %q here\n", args[0])
		return
	}

	ctx, cancel := s.mutateCtx("rename")
	defer cancel()
	_ = s.deps.Browse.Rename(ctx, item, args[1])
}

func (s *shell) remove(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: rm <name>")
		return
	}
	item, ok := findItem(s.deps.Browse.Listing(), args[0])
	if !ok {
		fmt.Fprintf(s.out, "no such item %q here\n", args[0])
		return
	}

	ctx, cancel := s.mutateCtx("rm")
	defer cancel()
	_ = s.deps.Browse.SoftDelete(ctx, item)
}

func (s *shell) put(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "usage: put <path> [path...]")
		return
	}

	var files []uploads.NamedFile
	var handles []*os.File
	defer func() {
		for _, h := range handles {
			h.Close()
		}
	}()
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		handles = append(handles, f)
		files = append(files, uploads.NamedFile{Name: filepath.Base(path), Data: f})
	}

	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Batch(), s.deps.Logger, "put")
	defer cancel()
	_ = s.deps.Browse.Upload(ctx, files)
}

func (s *shell) share(args []string) {
	if len(args) != 3 {
		fmt.Fprintln(s.out, "usage: share <name> <email> <viewer|editor>")
		return
	}
	item, ok := findItem(s.deps.Browse.Listing(), args[0])
	if !ok {
		fmt.Fprintf(s.out, "no such item %q here\n", args[0])
		return
	}

	ctx, cancel := s.mutateCtx("share")
	defer cancel()
	if _, err := s.deps.Share.ShareWithUser(ctx, item, args[1], models.Role(args[2])); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

func (s *shell) link(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: link <file>")
		return
	}
	item, ok := findItem(s.deps.Browse.Listing(), args[0])
	if !ok {
		fmt.Fprintf(s.out, "no such item %q here\n", args[0])
		return
	}

	ctx, cancel := s.mutateCtx("link")
	defer cancel()
	u, err := s.deps.Share.PublicLink(ctx, item)
	if err != nil {
		return // already notified
	}
	fmt.Fprintln(s.out, u)
}

func (s *shell) trashCmd(args []string) {
	if len(args) == 0 {
		args = []string{"ls"}
	}

	switch args[0] {
	case "ls":
		ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.List(), s.deps.Logger, "trash ls")
		defer cancel()
		s.deps.Trash.Refresh(ctx)
		s.printListing(s.deps.Trash.Listing())
	case "restore", "purge":
		if len(args) != 2 {
			fmt.Fprintf(s.out, "usage: trash %s <name>\n", args[0])
			return
		}
		item, ok := findItem(s.deps.Trash.Listing(), args[1])
		if !ok {
			fmt.Fprintf(s.out, "no such item %q in trash; run 'trash ls' first\n", args[1])
			return
		}
		ctx, cancel := s.mutateCtx("trash " + args[0])
		defer cancel()
		if args[0] == "restore" {
			_ = s.deps.Trash.Restore(ctx, item)
		} else {
			_ = s.deps.Trash.PermanentDelete(ctx, item)
		}
	default:
		fmt.Fprintln(s.out, "usage: trash ls|restore <name>|purge <name>")
	}
}

func (s *shell) sharedCmd(args []string) {
	if len(args) == 0 {
		args = []string{"ls"}
	}

	switch args[0] {
	case "ls":
		ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.List(), s.deps.Logger, "shared ls")
		defer cancel()
		s.deps.Shared.Refresh(ctx)
		s.printListing(s.deps.Shared.Listing())
	case "cd":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "usage: shared cd <folder>")
			return
		}
		item, ok := findItem(s.deps.Shared.Listing(), args[1])
		if !ok {
			fmt.Fprintf(s.out, "no such item %q in shared; run 'shared ls' first\n", args[1])
			return
		}
		nav, err := shared.EnterSharedFolder(item)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		s.deps.Browse.SetNav(nav)
		s.listWithTimeout()
		s.printListing(s.deps.Browse.Listing())
	default:
		fmt.Fprintln(s.out, "usage: shared ls|cd <folder>")
	}
}

func (s *shell) logout() {
	ctx, cancel := s.mutateCtx("logout")
	defer cancel()
	if err := s.deps.Session.SignOut(ctx); err != nil {
		fmt.Fprintln(s.out, "sign out:", err)
		return
	}
	fmt.Fprintln(s.out, "signed out")
}
