package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhlin/deskctl/internal/config"
	"github.com/jhlin/deskctl/internal/db"
	"github.com/jhlin/deskctl/internal/filter"
	"github.com/jhlin/deskctl/internal/repository"
	"github.com/jhlin/deskctl/internal/service"
	"github.com/jhlin/deskctl/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "deskctl",
	Short: "Service desk console",
	Long:  `Deskctl is a terminal console for the service desk: issue lists, a status board, customers with warranty state, and shareable filter links.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Load config
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		// Open database (saved views live here)
		database, err := db.Open()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		// Run initial migration if this is a fresh database
		// This handles first-time setup without user interaction
		status, _ := db.GetMigrationStatus()
		if status != nil && status.CurrentVersion == 0 {
			if err := db.RunMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Error running initial migrations: %v\n", err)
				os.Exit(1)
			}
		}

		client := service.New(cfg)
		store := filter.NewStore()
		hist := filter.NewMemoryHistory()

		// Hydrate the filter state once from the share link, then keep
		// the link in sync with every filter change from the UI.
		link, _ := cmd.Flags().GetString("link")
		syncer := filter.NewSyncer(store, hist)
		syncer.Start(link)
		defer syncer.Stop()

		// Launch TUI
		if err := tui.Run(database, cfg, client, store, hist); err != nil {
			logError("tui", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Build a share link from filter flags",
	Long: `Build the query string for a set of filters without opening the TUI.

Examples:
  deskctl link --status Open --status Pending
  deskctl link --search "printer" --sort created_at
  deskctl link --customer 7 --from 2026-01-01`,
	Run: func(cmd *cobra.Command, args []string) {
		c := filter.Default()

		c.Status, _ = cmd.Flags().GetStringSlice("status")
		c.Priority, _ = cmd.Flags().GetStringSlice("priority")
		c.Category, _ = cmd.Flags().GetStringSlice("category")
		c.Source, _ = cmd.Flags().GetStringSlice("source")
		c.Search, _ = cmd.Flags().GetString("search")
		c.DateFrom, _ = cmd.Flags().GetString("from")
		c.DateTo, _ = cmd.Flags().GetString("to")
		c.Page, _ = cmd.Flags().GetInt("page")
		c.SortField, _ = cmd.Flags().GetString("sort")

		if cmd.Flags().Changed("project") {
			id, _ := cmd.Flags().GetInt64("project")
			c.ProjectID = &id
		}
		if cmd.Flags().Changed("customer") {
			id, _ := cmd.Flags().GetInt64("customer")
			c.CustomerID = &id
		}
		if cmd.Flags().Changed("assignee") {
			id, _ := cmd.Flags().GetInt64("assignee")
			c.AssigneeID = &id
		}
		if asc, _ := cmd.Flags().GetBool("asc"); asc {
			c.SortOrder = filter.SortAsc
		}

		fmt.Println("?" + filter.EncodeQuery(filter.Normalize(c)))
	},
}

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List saved views and their share links",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := db.OpenAndMigrate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		repo := repository.NewViewRepo(database)
		views, err := repo.GetAll()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if len(views) == 0 {
			fmt.Println("No saved views. Press 'S' on the issues screen to save one.")
			return
		}

		for _, v := range views {
			query := v.Query
			if query == "" {
				query = "(all issues)"
			} else {
				query = "?" + query
			}
			fmt.Printf("%-24s %s\n", v.Name, query)
		}
	},
}

func init() {
	rootCmd.Flags().String("link", "", "Open the console with filters from a share link query string")

	linkCmd.Flags().StringSlice("status", nil, "Status filter (repeatable)")
	linkCmd.Flags().StringSlice("priority", nil, "Priority filter (repeatable)")
	linkCmd.Flags().StringSlice("category", nil, "Category filter (repeatable)")
	linkCmd.Flags().StringSlice("source", nil, "Source filter (repeatable)")
	linkCmd.Flags().Int64("project", 0, "Project ID")
	linkCmd.Flags().Int64("customer", 0, "Customer ID")
	linkCmd.Flags().Int64("assignee", 0, "Assignee ID")
	linkCmd.Flags().String("search", "", "Search text")
	linkCmd.Flags().String("from", "", "Created on or after (YYYY-MM-DD)")
	linkCmd.Flags().String("to", "", "Created on or before (YYYY-MM-DD)")
	linkCmd.Flags().Int("page", 1, "Page number")
	linkCmd.Flags().String("sort", "", "Sort field")
	linkCmd.Flags().Bool("asc", false, "Sort ascending (descending is the default)")

	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(viewsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func logError(scope string, err error) {
	logPath, pathErr := config.ErrorLogPath()
	if pathErr != nil {
		return
	}

	// Ensure directory exists
	if err := config.EnsureDirectories(); err != nil {
		return
	}

	f, fileErr := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "[%s] %v\n", scope, err)
}
