// Command github-stars prints the number of stargazers of a GitHub repository.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/saturnines/byo-graphql/pkg/metrics"
	"github.com/saturnines/byo-graphql/pkg/pagination"
	"github.com/saturnines/byo-graphql/pkg/transport/graphql"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

type Repository struct {
	Stargazers pagination.Count `json:"stargazers"`
}

var (
	owner   string
	name    string
	raw     bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "github-stars",
	Short: "Count the stargazers of a GitHub repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := os.Getenv("GITHUB_API_TOKEN")
		if token == "" {
			return fmt.Errorf("GITHUB_API_TOKEN is not set")
		}

		logger := zap.NewNop()
		if verbose {
			var err error
			if logger, err = zap.NewDevelopment(); err != nil {
				return err
			}
			defer logger.Sync()
		}

		collector := metrics.NewCollector("byo_graphql")
		client := graphql.NewClient("https://api.github.com/graphql",
			graphql.WithLogger(logger),
			graphql.WithMetrics(collector),
		)
		client.SetBearerAuth(token)

		query := fmt.Sprintf(`{ repository(owner: "%s", name: "%s") { %s } }`,
			owner, name, pagination.CountSelector("stargazers", ""))

		ctx := cmd.Context()
		if raw {
			fmt.Println("query:", query)
			text, err := client.Text(ctx, query)
			if err != nil {
				return err
			}
			fmt.Println(string(pretty.Pretty([]byte(text))))
		}

		repo, err := graphql.GetFirstItem[Repository](ctx, client, query)
		if err != nil {
			return err
		}
		fmt.Println("stars:", repo.Stargazers.Uint())

		if verbose {
			families, err := collector.Registry().Gather()
			if err != nil {
				return err
			}
			for _, f := range families {
				logger.Debug("metric", zap.String("name", f.GetName()), zap.Int("series", len(f.GetMetric())))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&owner, "owner", "Canop", "repository owner")
	rootCmd.Flags().StringVar(&name, "name", "bacon", "repository name")
	rootCmd.Flags().BoolVar(&raw, "raw", false, "also print the query and the server's raw answer")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every request")
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not loaded:", err)
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
