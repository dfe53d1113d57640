package commands

import (
	"bytes"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	sinkfs "github.com/goliatone/go-places-export/adapters/sink/fs"
	"github.com/goliatone/go-places-export/config"
	"github.com/goliatone/go-places-export/export"
	"github.com/goliatone/go-places-export/places"
	"github.com/goliatone/go-places-export/sources/sqliteplaces"
)

var (
	exportDB       string
	exportOut      string
	exportFormat   string
	exportCity     string
	exportColumns  []string
	exportTimezone string
	exportNoHeader bool
)

func init() {
	exportCmd.Flags().StringVar(&exportDB, "db", "", "path to the SQLite store (default $PLACES_DB)")
	exportCmd.Flags().StringVar(&exportOut, "output", "", "output file path (default derived from the dataset and timestamp)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "output format: csv, json, ndjson or xlsx (default $PLACES_FORMAT)")
	exportCmd.Flags().StringVar(&exportCity, "city", "", "only export records collected for this city")
	exportCmd.Flags().StringSliceVar(&exportColumns, "columns", nil, "columns to export, in order (default: name,address,lat,lng,place_id,rating,user_ratings_total)")
	exportCmd.Flags().StringVar(&exportTimezone, "timezone", "", "IANA timezone for datetime columns (default: as stored)")
	exportCmd.Flags().BoolVar(&exportNoHeader, "no-header", false, "omit the header row in csv/xlsx output")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export restaurant records from the store to a flat file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := newLogger(cfg.Log.Level)

		dbPath := exportDB
		if dbPath == "" {
			dbPath = cfg.Store.Path
		}
		formatName := exportFormat
		if formatName == "" {
			formatName = cfg.Export.DefaultFormat
		}
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		db, err := sqliteplaces.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		runner, err := newRunner(db, slogAdapter{logger})
		if err != nil {
			return err
		}

		req := export.ExportRequest{
			Definition: places.DefinitionName,
			Format:     format,
			City:       exportCity,
			Columns:    exportColumns,
			Timezone:   exportTimezone,
		}
		if exportNoHeader {
			req.RenderOptions.CSV = export.CSVOptions{HeadersSet: true}
			req.RenderOptions.XLSX = export.XLSXOptions{HeadersSet: true}
		}

		// Render into memory first; the sink publishes the file atomically
		// so a failed run leaves nothing behind.
		buf := &bytes.Buffer{}
		req.Output = buf

		result, err := runner.Run(cmd.Context(), req)
		if err != nil {
			return err
		}

		outPath := exportOut
		if outPath == "" {
			outPath = filepath.Join(cfg.Export.OutputDir, result.Filename)
		}

		size, err := sinkfs.New().Put(cmd.Context(), outPath, buf)
		if err != nil {
			return err
		}

		logger.Info("export complete",
			"path", outPath,
			"format", string(result.Format),
			"rows", result.Rows,
			"bytes", size,
		)
		return nil
	},
}

func newRunner(db *bun.DB, logger export.Logger) (*export.Runner, error) {
	runner := export.NewRunner()
	runner.Logger = logger

	if err := runner.Definitions.Register(places.Definition()); err != nil {
		return nil, err
	}

	source := sqliteplaces.NewSource(db)
	err := runner.RowSources.Register(places.RowSourceKey,
		func(req export.ExportRequest, def export.ResolvedDefinition) (export.RowSource, error) {
			return source, nil
		})
	if err != nil {
		return nil, err
	}
	return runner, nil
}
