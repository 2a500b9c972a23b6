package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/apandji/pandjico4/internal/config"
	"github.com/apandji/pandjico4/internal/site"
)

var syncData bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the site from project data, markdown, layouts and static assets",
	Long: `The build command merges data/projects.json with the frontmatter of
works/content/{slug}.md (falling back to works/{slug}.md), renders the
markdown, applies the layouts with the works sidebar pre-rendered for each
page, copies static assets, and writes everything to the output directory.

With --sync the merged records are written back to the data file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runBuild(cmd.Context(), appConfig, syncData)
		return err
	},
}

func runBuild(ctx context.Context, cfg config.Config, sync bool) (*site.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	b := site.New(cfg,
		site.WithParams(siteParams),
		site.WithSync(sync),
		site.WithLogger(appLogger),
	)
	return b.Build(ctx)
}

func init() {
	buildCmd.Flags().BoolVar(&syncData, "sync", false, "write merged frontmatter back to the data file")
	rootCmd.AddCommand(buildCmd)
}
