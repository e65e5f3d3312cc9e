package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"luxcheck/adapters/excel"
	"luxcheck/domain/core"
	"luxcheck/domain/report"
	"luxcheck/domain/standard"
	"luxcheck/domain/verdict"
	"luxcheck/internal/alias"
	"luxcheck/internal/catalog"
	"luxcheck/internal/config"
	"luxcheck/internal/container"
	"luxcheck/internal/design"
	"luxcheck/internal/render"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Output formats of the check command
const (
	formatJSON     = "json"
	formatMarkdown = "md"
	formatHTML     = "html"
)

var (
	standardsPath string
	aliasesPath   string
)

func main() {
	// .env is optional; the environment wins
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "luxcheck",
		Short:        "Check extracted lighting reports against EN 12464-1 style standards",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&standardsPath, "standards", "", "Standards catalog (JSON, XLSX or CSV); overrides STANDARDS_PATH")
	rootCmd.PersistentFlags().StringVar(&aliasesPath, "aliases", "", "Alias table (JSON or YAML); overrides ALIASES_PATH")

	rootCmd.AddCommand(
		newCheckCmd(),
		newBatchCmd(),
		newLookupCmd(),
		newNormalizeCmd(),
		newPlaceCmd(),
		newDesignCmd(),
		newImportStandardsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadContainer builds the application from the environment and the global flags
func loadContainer() (*container.Container, error) {
	if standardsPath != "" {
		os.Setenv("STANDARDS_PATH", standardsPath)
	}
	if aliasesPath != "" {
		os.Setenv("ALIASES_PATH", aliasesPath)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg)
}

// loadNormalizer builds the alias normalizer without requiring a catalog
func loadNormalizer() (*alias.Normalizer, error) {
	path := aliasesPath
	if path == "" {
		path = os.Getenv("ALIASES_PATH")
	}
	if path == "" {
		return alias.New(alias.DefaultTable()), nil
	}
	table, err := alias.LoadTable(path)
	if err != nil {
		return nil, err
	}
	return alias.New(table), nil
}

func newCheckCmd() *cobra.Command {
	var format string
	var outPath string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "check [report.json]",
		Short: "Check one extracted report",
		Long: `Check the rooms of one extracted report against the standards catalog.

Runs are stored when DATABASE_URL is set.

Example: luxcheck check hall7.json --standards standards.json --format md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatMarkdown && format != formatHTML {
				return fmt.Errorf("unknown format %q (use json, md or html)", format)
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), args[0], format, outPath, detailed)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format: json|md|html")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include the report data in JSON output")
	return cmd
}

func runCheck(ctx context.Context, stdout io.Writer, path, format, outPath string, detailed bool) error {
	c, err := loadContainer()
	if err != nil {
		return err
	}
	defer c.Shutdown(context.Background())
	if err := c.Connect(ctx); err != nil {
		return err
	}

	rec, err := report.ReadFile(path)
	if err != nil {
		return err
	}

	var out []byte
	name := filepath.Base(path)
	switch {
	case format == formatJSON && detailed:
		result, err := c.Service.Detailed(ctx, rec, name)
		if err != nil {
			return err
		}
		out, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
	default:
		run, err := c.Service.Check(ctx, rec, name)
		if err != nil {
			return err
		}
		out, err = formatResult(run.Result, format)
		if err != nil {
			return err
		}
	}

	if outPath != "" {
		return os.WriteFile(outPath, out, 0o644)
	}
	_, err = stdout.Write(out)
	return err
}

// formatResult renders a result in one of the check output formats
func formatResult(result verdict.ComplianceResult, format string) ([]byte, error) {
	switch format {
	case formatMarkdown:
		return []byte(render.Markdown(result)), nil
	case formatHTML:
		return render.HTML(result), nil
	default:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

func newBatchCmd() *cobra.Command {
	var outDir string
	var workers int

	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Check every report in a folder",
		Long: `Check every *.json report of a folder concurrently.

With --out each result is written as <name>_compliance.json next to a
batch_summary.json.

Example: luxcheck batch reports/ --out results/ --workers 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer()
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())
			if err := c.Connect(cmd.Context()); err != nil {
				return err
			}

			summary, err := c.BatchProcessor(outDir, workers).ProcessDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Total files: %d\nSuccessful: %d\nFailed: %d\n", summary.TotalFiles, summary.Successful, summary.Failed)
			for status, n := range summary.StatusCounts {
				fmt.Fprintf(w, "  %s: %d\n", status, n)
			}
			if summary.PassRate != nil {
				fmt.Fprintf(w, "Pass rate: mean %.1f%%, median %.1f%%, min %.1f%%, max %.1f%%\n",
					summary.PassRate.Mean, summary.PassRate.Median, summary.PassRate.Min, summary.PassRate.Max)
			}
			for _, f := range summary.Files {
				if !f.OK() {
					fmt.Fprintf(w, "  ✗ %s: %s\n", f.File, f.Error)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for per-report results and the batch summary")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent checks (default BATCH_WORKERS)")
	return cmd
}

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [room type]",
		Short: "Show the requirements of a room type",
		Long: `Resolve a room type or utilisation profile through the standard fallback chain.

Example: luxcheck lookup "General assembly work"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer()
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			reqs := c.Resolver.Requirements(strings.Join(args, " "))
			return writeJSON(cmd.OutOrStdout(), reqs)
		},
	}
}

func newNormalizeCmd() *cobra.Command {
	var usage bool

	cmd := &cobra.Command{
		Use:   "normalize [record.json]",
		Short: "Normalize the keys of a record or a list of records",
		Long: `Map the keys of raw records onto canonical catalog names and range-check
their lighting values.

Example: luxcheck normalize rows.json --usage`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNormalizer()
			if err != nil {
				return err
			}
			records, err := readRecords(args[0])
			if err != nil {
				return err
			}

			if usage {
				return writeJSON(cmd.OutOrStdout(), n.UsageReport(records))
			}

			out := make([]*core.Fields, 0, len(records))
			for _, rec := range records {
				normalized := n.NormalizeRecord(rec)
				n.ValidateLightingValues(normalized)
				out = append(out, normalized)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&usage, "usage", false, "Report which aliases the records use instead of normalizing them")
	return cmd
}

func newPlaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "place [name]",
		Short: "Map a place or room name onto a standard place",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNormalizer()
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			place, ok := n.NormalizePlace(name)
			if !ok {
				return fmt.Errorf("no standard place matches %q", name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), place)
			return nil
		},
	}
}

func newDesignCmd() *cobra.Command {
	var (
		req                   design.Request
		flux, efficacy, plane float64
		format, outPath       string
	)

	cmd := &cobra.Command{
		Use:   "design [request.json]",
		Short: "Generate the report of a planned installation and check it",
		Long: `Estimate the illuminance of a planned installation with the lumen method,
lay the luminaires out on a grid and check the resulting report like an
extracted one. Flags override the values of an optional request file.

Example: luxcheck design --project "Hall 7" --room-type "General assembly work" \
  --length 40 --width 20 --height 8 --count 24 --power 150 --efficacy 150 --mounting-height 7.5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatMarkdown && format != formatHTML {
				return fmt.Errorf("unknown format %q (use json, md or html)", format)
			}

			merged := design.Request{}
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &merged); err != nil {
					return fmt.Errorf("%s is not a design request: %w", args[0], err)
				}
			}
			applyDesignFlags(cmd, &merged, req)
			if cmd.Flags().Changed("flux") {
				merged.LuminousFlux = &flux
			}
			if cmd.Flags().Changed("efficacy") {
				merged.Efficacy = &efficacy
			}
			if cmd.Flags().Changed("work-plane-height") {
				merged.WorkPlaneHeight = &plane
			}

			c, err := loadContainer()
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())
			if err := c.Connect(cmd.Context()); err != nil {
				return err
			}

			generated, err := c.Service.Design(cmd.Context(), merged)
			if err != nil {
				return err
			}

			var out []byte
			if format == formatJSON {
				out, err = json.MarshalIndent(generated, "", "  ")
				out = append(out, '\n')
			} else {
				out, err = formatResult(generated.ComplianceResult, format)
			}
			if err != nil {
				return err
			}
			if outPath != "" {
				return os.WriteFile(outPath, out, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.ProjectName, "project", "", "Project name")
	f.StringVar(&req.CompanyName, "company", "", "Company name")
	f.StringVar(&req.RoomType, "room-type", "", "Room type or utilisation profile")
	f.Float64Var(&req.RoomLength, "length", 0, "Room length in m")
	f.Float64Var(&req.RoomWidth, "width", 0, "Room width in m")
	f.Float64Var(&req.RoomHeight, "height", 0, "Room height in m")
	f.IntVar(&req.LuminaireCount, "count", 0, "Number of luminaires")
	f.Float64Var(&req.LuminairePower, "power", 0, "Luminaire power in W")
	f.Float64Var(&flux, "flux", 0, "Luminous flux per luminaire in lm")
	f.Float64Var(&efficacy, "efficacy", 0, "Luminous efficacy in lm/W (default 100 when no flux is given)")
	f.Float64Var(&req.MountingHeight, "mounting-height", 0, "Mounting height in m")
	f.Float64Var(&plane, "work-plane-height", design.DefaultWorkPlaneHeight, "Work plane height in m")
	f.StringVar(&req.Manufacturer, "manufacturer", "", "Luminaire manufacturer")
	f.StringVar(&req.ArticleNo, "article", "", "Luminaire article number")
	f.StringVar(&format, "format", formatJSON, "Output format: json|md|html")
	f.StringVarP(&outPath, "out", "o", "", "Write the result to a file instead of stdout")
	return cmd
}

// applyDesignFlags copies the explicitly set flags of cmd from flags into req
func applyDesignFlags(cmd *cobra.Command, req *design.Request, flags design.Request) {
	changed := cmd.Flags().Changed
	if changed("project") {
		req.ProjectName = flags.ProjectName
	}
	if changed("company") {
		req.CompanyName = flags.CompanyName
	}
	if changed("room-type") {
		req.RoomType = flags.RoomType
	}
	if changed("length") {
		req.RoomLength = flags.RoomLength
	}
	if changed("width") {
		req.RoomWidth = flags.RoomWidth
	}
	if changed("height") {
		req.RoomHeight = flags.RoomHeight
	}
	if changed("count") {
		req.LuminaireCount = flags.LuminaireCount
	}
	if changed("power") {
		req.LuminairePower = flags.LuminairePower
	}
	if changed("mounting-height") {
		req.MountingHeight = flags.MountingHeight
	}
	if changed("manufacturer") {
		req.Manufacturer = flags.Manufacturer
	}
	if changed("article") {
		req.ArticleNo = flags.ArticleNo
	}
}

func newImportStandardsCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "import-standards [file.xlsx|file.csv|file.json]",
		Short: "Convert a standards table into a normalized catalog",
		Long: `Read a standards table, normalize its headers through the alias table,
range-check every row and write the catalog as JSON, or as XLSX when --out
ends in .xlsx.

Example: luxcheck import-standards en12464.xlsx --out standards.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNormalizer()
			if err != nil {
				return err
			}
			outcome := catalog.NewLoader(n).LoadFile(args[0])
			for _, warning := range outcome.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning)
			}
			if !outcome.OK() {
				return fmt.Errorf("no standards imported from %s (%s)", args[0], outcome.Status)
			}
			if err := exportCatalog(cmd.OutOrStdout(), outPath, args[0], outcome.Catalog); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "imported %d standards (%d need review)\n",
				outcome.Catalog.Len(), outcome.Catalog.Stats().NeedingReview)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (.json or .xlsx); stdout when empty")
	return cmd
}

func exportCatalog(stdout io.Writer, outPath, source string, cat *standard.Catalog) error {
	if strings.EqualFold(filepath.Ext(outPath), ".xlsx") {
		return excel.ExportStandards(outPath, cat.Standards)
	}

	doc := map[string]any{
		"metadata":  map[string]any{"source": filepath.Base(source)},
		"standards": cat.Standards,
	}
	if outPath == "" {
		return writeJSON(stdout, doc)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeJSON(f, doc)
}

// readRecords reads one JSON object or a list of objects
func readRecords(path string) ([]*core.Fields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var list []*core.Fields
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	rec := core.NewFields()
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("%s must hold a JSON object or a list of objects: %w", path, err)
	}
	return []*core.Fields{rec}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
