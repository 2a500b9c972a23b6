package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/apandji/pandjico4/internal/config"
	"github.com/apandji/pandjico4/internal/model"
	"github.com/apandji/pandjico4/internal/store"
	"github.com/apandji/pandjico4/internal/works"
)

var listOpts struct {
	remote string
	tags   string
	sort   string
	dir    string
	page   string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Shows the works list as a page would render it",
	Long: `The list command runs the works list pipeline without a browser: it loads
the project data, applies the tag filter, the sort and the active page, and
prints the resulting list.

With --remote the data is fetched from a deployed site, falling back to the
local data file when the site cannot be reached.`,
	Example: `  pandjico list --tags web,go --sort date --dir desc
  pandjico list --page /works/my-project.html
  pandjico list --remote https://pandji.co`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := listStore(appConfig, listOpts.remote)
		c, err := runWorks(cmd.Context(), st, nil, appConfig, worksQuery{
			Path: listOpts.page,
			Tags: splitTags(listOpts.tags),
			Sort: listOpts.sort,
			Dir:  listOpts.dir,
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if err := printSnapshot(out, c.Snapshot()); err != nil {
			return err
		}
		printCatalog(out, c.Featured(), st.Collection().Tags())
		return nil
	},
}

// listStore reads the local data file, or the remote site with the local
// file as fallback.
func listStore(cfg config.Config, remote string) *store.Store {
	name := filepath.ToSlash(cfg.DataFile)
	local := store.NewDirTransport(".")
	if filepath.IsAbs(cfg.DataFile) {
		local = store.NewDirTransport("/")
	}
	if remote == "" {
		return store.New(local, store.WithDataPath(name), store.WithLogger(appLogger))
	}
	return store.New(
		store.NewHTTPTransport(remote, cfg.FetchTimeout),
		store.WithFallback(local),
		store.WithDataPath(name),
		store.WithLogger(appLogger),
	)
}

func printSnapshot(w io.Writer, snap works.Snapshot) error {
	if !snap.DataAvailable {
		fmt.Fprintln(w, "Project data unavailable; the list is empty.")
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Slug", "Date", "Tags", "State")
	for i, e := range snap.Entries {
		if err := table.Append(strconv.Itoa(i+1), e.Slug, string(e.Date), strings.Join(e.Tags, ", "), entryState(e)); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	filter := "all"
	if len(snap.Filter) > 0 {
		filter = strings.Join(snap.Filter, ", ")
	}
	fmt.Fprintf(w, "URL: %s\n", snap.URL)
	fmt.Fprintf(w, "Filter: %s", filter)
	if snap.Fallback {
		fmt.Fprint(w, " (no match, showing everything)")
	}
	fmt.Fprintf(w, "\nSort: %s %s (%s)\n", snap.Sort.Key, snap.Sort.Direction, snap.Sort.Label())
	return nil
}

// printCatalog lists the featured projects in display order and every tag
// a filter could use.
func printCatalog(w io.Writer, featured []model.Project, tags []string) {
	slugs := make([]string, len(featured))
	for i, p := range featured {
		slugs[i] = p.Slug
	}
	fmt.Fprintf(w, "Featured: %s\n", orNone(slugs))
	fmt.Fprintf(w, "Tags: %s\n", orNone(tags))
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func entryState(e works.Entry) string {
	switch {
	case e.Active:
		return "active"
	case e.Visible:
		return "visible"
	default:
		return "hidden"
	}
}

func init() {
	listCmd.Flags().StringVar(&listOpts.remote, "remote", "", "base URL of a deployed site to read project data from")
	listCmd.Flags().StringVar(&listOpts.tags, "tags", "", "comma separated tags every listed project must carry")
	listCmd.Flags().StringVar(&listOpts.sort, "sort", "", "sort key: alphabetical or date")
	listCmd.Flags().StringVar(&listOpts.dir, "dir", "", "sort direction: asc or desc")
	listCmd.Flags().StringVar(&listOpts.page, "page", "/index.html", "page path the list is shown on")
	rootCmd.AddCommand(listCmd)
}
