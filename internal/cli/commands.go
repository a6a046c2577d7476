package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zarlcorp/zpeople/internal/person"
	"github.com/zarlcorp/zpeople/internal/sample"
	"github.com/zarlcorp/zpeople/internal/store"
)

func (a *app) listCmd() *cobra.Command {
	var (
		filter  string
		field   string
		sortKey string
		desc    bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list people, optionally filtered and sorted",
		Example: `  zpeople list
  zpeople list --filter Tiger
  zpeople list --sort age --desc --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := a.listQuery(cmd, filter, field, sortKey, desc)
			if err != nil {
				return err
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			people, err := s.Fetch(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				if people == nil {
					people = []person.Person{}
				}
				return printJSON(w, people)
			}
			printPeople(w, people)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&filter, "filter", "", "only people whose field contains this text (case-sensitive)")
	f.StringVar(&field, "field", string(store.FieldName), "field the filter applies to: name or gender")
	f.StringVar(&sortKey, "sort", "", "sort by name, age, gender or created (default from config)")
	f.BoolVar(&desc, "desc", false, "sort descending")
	f.BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// listQuery builds the query for list from its flags and the config's
// default order.
func (a *app) listQuery(cmd *cobra.Command, filter, field, sortKey string, desc bool) (store.Query, error) {
	srt := a.cfg.DefaultSort()
	if cmd.Flags().Changed("sort") {
		f, err := store.ParseField(sortKey)
		if err != nil {
			return store.Query{}, err
		}
		srt.Field = f
	}
	if cmd.Flags().Changed("desc") {
		srt.Descending = desc
	}

	q := store.Query{Sort: &srt}
	if filter != "" {
		f, err := store.ParseField(field)
		if err != nil {
			return store.Query{}, err
		}
		q.Filter = &store.Predicate{Field: f, Contains: filter}
	}

	if err := q.Validate(); err != nil {
		return store.Query{}, err
	}
	return q, nil
}

func (a *app) addCmd() *cobra.Command {
	var (
		age    int64
		gender string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "add a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if age < 0 {
				return fmt.Errorf("add: age must not be negative")
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.Insert(cmd.Context(), args[0], age, gender)
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", p.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.Int64Var(&age, "age", 0, "age in years")
	f.StringVar(&gender, "gender", "", "gender")
	f.BoolVar(&asJSON, "json", false, "print the new person as JSON")
	return cmd
}

func (a *app) seedCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "seed [N]",
		Short: "add N randomly generated people (default 10)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 10
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v < 1 {
					return fmt.Errorf("seed: count must be a positive number, got %q", args[0])
				}
				n = v
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			added := make([]person.Person, 0, n)
			for _, d := range sample.New().Drafts(n) {
				p, err := s.Insert(cmd.Context(), d.Name, d.Age, d.Gender)
				if err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				added = append(added, p)
			}
			slog.Debug("seeded people", "count", len(added))

			if asJSON {
				return printJSON(cmd.OutOrStdout(), added)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d people\n", len(added))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the new people as JSON")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "delete a person by ID",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("rm: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Args:  cobra.NoArgs,
		// no config needed to print a version
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "zpeople %s\n", a.opts.Version)
		},
	}
}

func printPeople(w io.Writer, people []person.Person) {
	if len(people) == 0 {
		fmt.Fprintln(w, "no people")
		return
	}

	for _, p := range people {
		fmt.Fprintf(w, "  %-36s  %-24s  %3d  %-10s  %s\n",
			p.ID,
			p.DisplayName("unnamed"),
			p.Age,
			p.Gender,
			p.CreatedAt.Format("2006-01-02"),
		)
	}
}
