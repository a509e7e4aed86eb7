package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yourusername/shelf-planogram/config"
	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"github.com/yourusername/shelf-planogram/internal/domain/repository"
	"github.com/yourusername/shelf-planogram/internal/infrastructure/catalogfile"
	"github.com/yourusername/shelf-planogram/internal/infrastructure/parser"
	"github.com/yourusername/shelf-planogram/internal/infrastructure/storage"
	"github.com/yourusername/shelf-planogram/internal/usecase"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var (
	// Global flags
	verbose   bool
	delimiter string
	dbPath    string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "planogram",
	Short: "Planogram file import and SKU catalog tools",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if delimiter == "" {
			delimiter = cfg.CSVDelimiter
		}
		if dbPath == "" {
			dbPath = cfg.CatalogDBPath
		}

		zcfg := zap.NewProductionConfig()
		if verbose || cfg.LogLevel == "debug" {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

// parseCmd prints the form fields each file would produce
var parseCmd = &cobra.Command{
	Use:   "parse [file...]",
	Short: "Parse csv/xlsx/xls planogram files and print planogram_data and facings_data",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "SKU catalog management",
}

var catalogLoadCmd = &cobra.Command{
	Use:   "load [file.yaml]",
	Short: "Seed the SKU catalog from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogLoad,
}

var catalogListCmd = &cobra.Command{
	Use:   "list [org_id]",
	Short: "List the SKUs of an organization",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogList,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&delimiter, "delimiter", "", "CSV delimiter (default from CSV_DELIMITER)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SKU catalog database (default from CATALOG_DB_PATH)")

	catalogCmd.AddCommand(catalogLoadCmd, catalogListCmd)
	rootCmd.AddCommand(parseCmd, catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	p := parser.NewPlanogramParser(parser.NewTabularDecoder(delimiter, logger), logger)

	results := make([]map[string]json.RawMessage, len(args))
	g, ctx := errgroup.WithContext(commandContext(cmd))
	g.SetLimit(4)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			fields, err := parseFile(ctx, p, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = fields
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	for i, path := range args {
		results[i]["file"] = json.RawMessage(strconv.Quote(filepath.Base(path)))
	}
	return enc.Encode(results)
}

// parseFile the planogram_data and facings_data fields a file produces
func parseFile(ctx context.Context, p repository.PlanogramParser, path string) (map[string]json.RawMessage, error) {
	result, err := p.ParseSource(ctx, parser.NewFileSource(path))
	if err != nil {
		return nil, err
	}

	payload, err := usecase.AssemblePayload(&entity.ShopDraft{
		Planogram: result.Planogram,
		Facings:   result.Facings,
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage)
	for _, name := range []string{usecase.FieldPlanogramData, usecase.FieldFacingsData} {
		if v, ok := payload.Get(name); ok {
			out[name] = json.RawMessage(v)
		}
	}
	return out, nil
}

func runCatalogLoad(cmd *cobra.Command, args []string) error {
	file, err := catalogfile.Load(args[0])
	if err != nil {
		return err
	}

	repo, err := storage.NewSQLiteSkuCatalogRepository(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	uc := usecase.NewCatalogUseCase(repo, logger)
	ctx := commandContext(cmd)
	for _, org := range file.Organizations {
		n, err := uc.LoadCatalog(ctx, org.OrgID, org.Skus)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d SKUs\n", org.OrgID, n)
	}
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	repo, err := storage.NewSQLiteSkuCatalogRepository(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	entries, err := usecase.NewCatalogUseCase(repo, logger).List(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.SkuID, e.SkuName)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
