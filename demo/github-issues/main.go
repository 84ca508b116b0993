// Command github-issues fetches the complete list of open issues of a GitHub
// repository, one connection page after the other.
//
//	GITHUB_API_TOKEN=... go run ./demo/github-issues --owner Canop --name broot
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/saturnines/byo-graphql/pkg/config"
	"github.com/saturnines/byo-graphql/pkg/pagination"
	"github.com/saturnines/byo-graphql/pkg/transport/graphql"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

const githubEndpoint = "https://api.github.com/graphql"

type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
}

type Repository struct {
	Issues pagination.Connection[Issue] `json:"issues"`
}

var (
	owner      string
	name       string
	pageSize   uint
	configPath string
	raw        bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "github-issues",
	Short: "List the open issues of a GitHub repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, size, err := newClient()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("page-size") {
			size = pageSize
		}

		query := func(after *string) string {
			return fmt.Sprintf(`{ repository(owner: "%s" name: "%s") { issues%s%s } }`,
				owner, name,
				pagination.PageSelector(after, size, "states: OPEN"),
				pagination.PageBody("{ number title state }"),
			)
		}

		ctx := cmd.Context()
		if raw {
			// first page only, as the server sends it
			text, err := client.Text(ctx, query(nil))
			if err != nil {
				return err
			}
			fmt.Println(string(pretty.Color(pretty.Pretty([]byte(text)), nil)))
			return nil
		}

		issues, err := graphql.FetchAll(ctx, client, query,
			func(r *Repository) *pagination.Connection[Issue] { return &r.Issues })
		if err != nil {
			return err
		}
		for _, issue := range issues {
			fmt.Printf("#%d %s %s\n", issue.Number, issue.State, issue.Title)
		}
		return nil
	},
}

// newClient builds the client from --config when given, else from the
// GITHUB_API_TOKEN environment variable.
func newClient() (*graphql.Client, uint, error) {
	logger := zap.NewNop()
	if verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, 0, err
		}
	}

	if configPath != "" {
		cfg, err := config.NewDefaultLoader().Load(configPath)
		if err != nil {
			return nil, 0, err
		}
		client, err := graphql.NewClientFromConfig(cfg, graphql.WithLogger(logger))
		if err != nil {
			return nil, 0, err
		}
		return client, cfg.PageSize, nil
	}

	token := os.Getenv("GITHUB_API_TOKEN")
	if token == "" {
		return nil, 0, fmt.Errorf("GITHUB_API_TOKEN is not set")
	}
	client := graphql.NewClient(githubEndpoint, graphql.WithLogger(logger))
	client.SetBearerAuth(token)
	return client, config.DefaultPageSize, nil
}

func init() {
	rootCmd.Flags().StringVar(&owner, "owner", "Canop", "repository owner")
	rootCmd.Flags().StringVar(&name, "name", "broot", "repository name")
	rootCmd.Flags().UintVar(&pageSize, "page-size", config.DefaultPageSize, "issues per page (GitHub allows up to 100)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "client config file (YAML)")
	rootCmd.Flags().BoolVar(&raw, "raw", false, "print the server's answer for the first page")
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
