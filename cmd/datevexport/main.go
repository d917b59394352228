package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/wareflow/datev-export/datevexport"
	"github.com/wareflow/datev-export/datevexport/chunk"
	"github.com/wareflow/datev-export/datevexport/log"
	"github.com/wareflow/datev-export/datevexport/message"
	"github.com/wareflow/datev-export/datevexport/zap"
)

var (
	// Global flags
	profilePath string
	debug       bool

	// Window command flags
	chunkSize int
	offset    int
	frozenAt  string
)

var rootCmd = &cobra.Command{
	Use:   "datevexport",
	Short: "Plan DATEV export chunks against a live shop database",
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count the exportable documents of a profile",
	RunE:  runCount,
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "List one chunk of exportable document ids",
	RunE:  runWindow,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "profile.yaml", "Export profile YAML file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	windowCmd.Flags().IntVar(&chunkSize, "chunk-size", 50, "Documents per chunk")
	windowCmd.Flags().IntVar(&offset, "offset", 0, "Window offset into the ordered document set")
	windowCmd.Flags().StringVar(&frozenAt, "frozen-at", "",
		"RFC 3339 timestamp freezing the window against newer documents (default: now)")

	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(windowCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the environment, the profile, and the database connection shared
// by both commands.
func setup() (datevexport.ExportProfile, *chunk.Store, log.Logger, error) {
	// A .env file is optional; real deployments set the variables directly.
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		return datevexport.ExportProfile{}, nil, nil, err
	}

	profile, err := loadProfile(profilePath)
	if err != nil {
		return datevexport.ExportProfile{}, nil, nil, err
	}

	if messages := profile.Validate(); len(messages) > 0 {
		for _, m := range messages {
			fmt.Fprintln(os.Stderr, renderMessage(m))
		}

		return datevexport.ExportProfile{}, nil, nil, fmt.Errorf("invalid export profile %s", profilePath)
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		return datevexport.ExportProfile{}, nil, nil, fmt.Errorf("missing environment variable DATABASE_DSN")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return datevexport.ExportProfile{}, nil, nil, fmt.Errorf("open database: %w", err)
	}

	return profile, chunk.NewStore(db, logger), logger, nil
}

func newLogger() (log.Logger, error) {
	level := "info"
	if debug {
		level = "debug"
	}

	logger, _, err := zap.New(zap.Config{
		Environment: zap.EnvironmentLocal,
		Level:       level,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}

func runCount(cmd *cobra.Command, _ []string) error {
	profile, store, _, err := setup()
	if err != nil {
		return err
	}

	count, err := store.Count(cmd.Context(), profile)
	if err != nil {
		return err
	}

	fmt.Printf("%d exportable documents\n", count)

	return nil
}

func runWindow(cmd *cobra.Command, _ []string) error {
	profile, store, logger, err := setup()
	if err != nil {
		return err
	}

	createdAt := time.Now().UTC()
	if frozenAt != "" {
		createdAt, err = time.Parse(time.RFC3339, frozenAt)
		if err != nil {
			return fmt.Errorf("parse --frozen-at: %w", err)
		}
	}

	export := datevexport.Export{
		ID:        uuid.NewString(),
		CreatedAt: createdAt,
	}

	logger.Log(cmd.Context(), log.LevelDebug, "querying document window",
		log.Int("chunkSize", chunkSize),
		log.Int("offset", offset),
		log.String("frozenAt", createdAt.Format(time.RFC3339)),
	)

	ids, err := store.Window(cmd.Context(), profile, export, chunkSize, offset)
	if err != nil {
		return err
	}

	for _, id := range ids {
		fmt.Println(id)
	}

	return syncLogger(cmd.Context(), logger)
}

func renderMessage(m message.Message) string {
	return fmt.Sprintf("%s: %s", m.Severity, m.Text(message.LocaleEnglish))
}

func syncLogger(ctx context.Context, logger log.Logger) error {
	syncCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	// Sync failures on a closing terminal are routine; ignore them.
	_ = logger.Sync(syncCtx)

	return nil
}
