package cmd

import (
	"review-platform/config"
	"review-platform/database"
	"review-platform/internal/importer"

	"github.com/spf13/cobra"
)

var importDir string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-load CSV files into the database",
	Long: `Loads users, categories, genres, titles, genre-title links, reviews
and comments from CSV files into the database, in dependency order.
Files are looked up by their conventional names (users.csv, category.csv,
genre.csv, titles.csv, genre_title.csv, review.csv, comments.csv); a
missing file is skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := initLogger()
		defer logger.Sync()

		config.LoadEnv()
		database.InitDB()

		dir := importDir
		if dir == "" {
			dir = config.CSV_DATA_DIR
		}
		return importer.New(database.DB, dir).Run()
	},
}

func init() {
	importCmd.Flags().StringVar(&importDir, "dir", "", "directory containing the CSV files (default: CSV_DATA_DIR)")
	rootCmd.AddCommand(importCmd)
}
