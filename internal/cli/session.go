package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/estate/internal/catalog"
	"github.com/roach88/estate/internal/favourites"
	"github.com/roach88/estate/internal/logging"
	"github.com/roach88/estate/internal/search"
)

const sessionHelp = `Commands:
  search [key=value ...]   search the catalog (type, minPrice, maxPrice,
                           minBedrooms, maxBedrooms, dateAfter, dateFrom,
                           dateTo, postcode)
  show <id>                show a property in detail
  add <id>                 add a property to favourites
  remove <id>              remove a property from favourites
  toggle <id>              add or remove a property
  clear [--yes]            remove every favourite, after confirmation
  list                     list favourites
  count                    number of favourites
  status                   the visible notification, if any
  help                     this text
  quit                     end the session`

// NewSessionCommand creates the interactive session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Search and keep favourites interactively",
		Long: `Start an interactive session that reads commands from standard input.
Favourites last for the session only. Notifications disappear three seconds
after the change that raised them.

` + sessionHelp,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(rootOpts, cmd)
		},
	}
}

type session struct {
	ctx      context.Context
	catalog  *catalog.Catalog
	searcher *search.Searcher
	fmtr     *catalog.Formatter
	out      *OutputFormatter
	in       *bufio.Scanner
	logger   logging.Logger
}

func runSession(opts *RootOptions, cmd *cobra.Command) error {
	cat, err := opts.loadCatalog(cmd)
	if err != nil {
		return err
	}
	fmtr, err := opts.newFormatter(cmd)
	if err != nil {
		return err
	}

	store := favourites.New(favourites.WithLogger(opts.logger))
	defer store.Close()

	searcher := opts.newSearcher(cat)
	defer searcher.Stop()

	s := &session{
		ctx:      favourites.NewContext(cmd.Context(), store),
		catalog:  cat,
		searcher: searcher,
		fmtr:     fmtr,
		out:      opts.formatter(cmd),
		in:       bufio.NewScanner(cmd.InOrStdin()),
		logger:   opts.logger.With(logging.Fields{"component": "session", "session": store.ID()}),
	}
	s.logger.Info("session started", logging.Fields{"properties": cat.Len()})

	if !s.out.JSON() {
		fmt.Fprintf(s.out.Writer, "estate session %s (%s). Type help for commands.\n",
			store.ID(), plural(cat.Len(), "property", "properties"))
	}

	for {
		s.prompt("> ")
		if !s.in.Scan() {
			break
		}
		if quit := s.dispatch(strings.Fields(s.in.Text())); quit {
			break
		}
	}
	if err := s.in.Err(); err != nil {
		return WrapExitError(ExitCommandError, "read session input", err)
	}

	s.logger.Info("session ended", logging.Fields{"favourites": store.Count()})
	return nil
}

func (s *session) prompt(p string) {
	if !s.out.JSON() {
		fmt.Fprint(s.out.Writer, p)
	}
}

// store returns the favourites store bound to the session context.
func (s *session) store() *favourites.Store {
	return favourites.MustFromContext(s.ctx)
}

// dispatch runs one command line and reports whether the session ends.
func (s *session) dispatch(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "quit", "exit":
		return true
	case "help":
		s.reply(nil, func(w io.Writer) { fmt.Fprintln(w, sessionHelp) })
	case "search":
		s.search(args)
	case "show":
		if p, ok := s.property(name, args); ok {
			d := describeProperty(p, s.fmtr)
			s.reply(d, func(w io.Writer) { writeDetails(w, d) })
		}
	case "add":
		if p, ok := s.property(name, args); ok {
			s.store().Add(p)
			s.notification()
		}
	case "remove":
		if len(args) != 1 {
			s.usage("remove <id>")
			break
		}
		s.store().Remove(args[0])
		s.notification()
	case "toggle":
		if p, ok := s.property(name, args); ok {
			s.store().Toggle(p)
			s.notification()
		}
	case "clear":
		s.clear(args)
	case "list":
		favs := s.store().Favourites()
		s.reply(favs, func(w io.Writer) {
			if len(favs) == 0 {
				fmt.Fprintln(w, "No favourites yet.")
				return
			}
			propertyTable(w, favs, s.fmtr)
		})
	case "count":
		n := s.store().Count()
		s.reply(map[string]int{"count": n}, func(w io.Writer) {
			fmt.Fprintln(w, plural(n, "favourite", "favourites"))
		})
	case "status":
		s.notification()
	default:
		s.fail(ErrCodeCriteria, fmt.Sprintf("unknown command %q (type help)", name))
	}
	return false
}

func (s *session) search(args []string) {
	c, err := search.ParseAssignments(args)
	if err != nil {
		s.fail(ErrCodeCriteria, err.Error())
		return
	}
	res, err := s.searcher.Search(c)
	if err != nil {
		s.fail(catalog.ErrorCode(err), err.Error())
		return
	}
	if !res.Validation.IsValid {
		if s.out.JSON() {
			_ = s.out.Error(ErrCodeValidation, "invalid search criteria", res.Validation)
			return
		}
		writeValidationErrors(s.out.Writer, res.Validation.Errors)
		return
	}

	store := s.store()
	data := SearchData{Criteria: c, Count: len(res.Properties), Properties: res.Properties}
	s.reply(data, func(w io.Writer) {
		var tw strings.Builder
		propertyTable(&tw, res.Properties, s.fmtr)
		for _, line := range strings.SplitAfter(tw.String(), "\n") {
			if line == "" {
				continue
			}
			id, _, _ := strings.Cut(line, " ")
			marker := "  "
			if store.IsFavourite(id) {
				marker = "* "
			}
			fmt.Fprint(w, marker+line)
		}
		fmt.Fprintf(w, "%s found\n", plural(len(res.Properties), "property", "properties"))
	})
}

func (s *session) clear(args []string) {
	store := s.store()
	confirmed := len(args) == 1 && args[0] == "--yes"
	if len(args) > 0 && !confirmed {
		s.usage("clear [--yes]")
		return
	}
	if !confirmed {
		s.prompt(fmt.Sprintf("Remove all %s? [y/N] ", plural(store.Count(), "favourite", "favourites")))
		if s.in.Scan() {
			answer := strings.ToLower(strings.TrimSpace(s.in.Text()))
			confirmed = answer == "y" || answer == "yes"
		}
	}

	if !store.Clear(confirmed) {
		s.reply(map[string]bool{"cleared": false}, func(w io.Writer) {
			fmt.Fprintln(w, "Nothing cleared.")
		})
		return
	}
	s.notification()
}

// property resolves the single id argument of a command.
func (s *session) property(cmd string, args []string) (catalog.Property, bool) {
	if len(args) != 1 {
		s.usage(cmd + " <id>")
		return catalog.Property{}, false
	}
	p, ok := s.catalog.ByID(args[0])
	if !ok {
		s.fail(ErrCodeUnknownID, fmt.Sprintf("no property with id %q", args[0]))
		return catalog.Property{}, false
	}
	return p, true
}

// notification prints the visible notification and the favourites count.
func (s *session) notification() {
	st := s.store().State()
	data := map[string]any{"count": st.Count(), "notification": st.Notification}
	s.reply(data, func(w io.Writer) {
		if st.Notification == nil {
			fmt.Fprintf(w, "(no notification) %s\n", plural(st.Count(), "favourite", "favourites"))
			return
		}
		fmt.Fprintf(w, "[%s] %s (%s)\n", st.Notification.Kind, st.Notification.Message,
			plural(st.Count(), "favourite", "favourites"))
	})
}

func (s *session) reply(data any, text func(io.Writer)) {
	if err := s.out.Success(data, text); err != nil {
		s.logger.WithError(err).Warn("write reply", nil)
	}
}

func (s *session) usage(u string) {
	s.fail(ErrCodeCriteria, "usage: "+u)
}

func (s *session) fail(code, msg string) {
	if err := s.out.Error(code, msg, nil); err != nil {
		s.logger.WithError(err).Warn("write error", nil)
	}
}
