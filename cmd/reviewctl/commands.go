package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/analytics"
	"review_insights/internal/bootstrap"
	"review_insights/internal/domain"
	"review_insights/internal/shared"
)

type rootOpts struct {
	configFile string
	dataDir    string
	logLevel   string
	compact    bool
}

func newRootCmd() *cobra.Command {
	o := &rootOpts{}
	root := &cobra.Command{
		Use:          "reviewctl",
		Short:        "Build review insight reports from the configured sources",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&o.configFile, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")
	root.PersistentFlags().StringVar(&o.dataDir, "data-dir", "", "CSV data directory (overrides DATA_DIR)")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "warn", "log level")
	root.PersistentFlags().BoolVar(&o.compact, "compact", false, "print compact JSON")

	report := func(use, short string, build func([]domain.Dataset) any) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				datasets, err := o.load(cmd)
				if err != nil {
					return err
				}
				return o.print(cmd.OutOrStdout(), build(datasets))
			},
		}
	}
	root.AddCommand(
		report("buyer", "Buyer insights per dataset and overall",
			func(ds []domain.Dataset) any { return analytics.BuildBuyerInsights(ds) }),
		report("supplier", "Supplier insights per dataset and overall",
			func(ds []domain.Dataset) any { return analytics.BuildSupplierInsights(ds) }),
		report("filters", "Available filter values",
			func(ds []domain.Dataset) any { return analytics.BuildFilterOptions(ds) }),
		report("advisor", "E-commerce model recommender",
			func(ds []domain.Dataset) any { return analytics.BuildModelRecommender(ds) }),
		newReviewsCmd(o),
	)
	return root
}

func newReviewsCmd(o *rootOpts) *cobra.Command {
	var (
		f                  analytics.ReviewFilters
		minRating, maxRate float64
		start, end         string
	)
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Query normalized reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("min-rating") {
				f.MinRating = &minRating
			}
			if cmd.Flags().Changed("max-rating") {
				f.MaxRating = &maxRate
			}
			var err error
			if f.StartDate, err = flagDate(start); err != nil {
				return err
			}
			if f.EndDate, err = flagDate(end); err != nil {
				return err
			}
			datasets, err := o.load(cmd)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), analytics.QueryReviews(datasets, f))
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.Dataset, "dataset", "", "dataset name")
	fl.StringVar(&f.Brand, "brand", "", "brand")
	fl.StringVar(&f.Model, "model", "", "model")
	fl.StringVar(&f.Sentiment, "sentiment", "", "Positive|Neutral|Negative")
	fl.StringVar(&f.Feature, "feature", "", "aspect name")
	fl.StringVar(&f.Source, "source", "", "source")
	fl.StringVar(&f.Country, "country", "", "country")
	fl.StringVar(&f.Search, "search", "", "case-insensitive text substring")
	fl.Float64Var(&minRating, "min-rating", 0, "minimum rating")
	fl.Float64Var(&maxRate, "max-rating", 0, "maximum rating")
	fl.StringVar(&start, "start-date", "", "YYYY-MM-DD")
	fl.StringVar(&end, "end-date", "", "YYYY-MM-DD")
	fl.IntVar(&f.Page, "page", analytics.DefaultPage, "page number")
	fl.IntVar(&f.PageSize, "page-size", analytics.DefaultPageSize, "page size")
	return cmd
}

func flagDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return &t, nil
}

func (o *rootOpts) load(cmd *cobra.Command) ([]domain.Dataset, error) {
	if o.configFile != "" {
		_ = os.Setenv("CONFIG_FILE", o.configFile)
	}
	cfg, err := shared.Load()
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	observability.SetLevel(o.logLevel)

	state, closeDeps, err := bootstrap.NewState(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	defer closeDeps()
	snap, err := state.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	return snap.Datasets, nil
}

func (o *rootOpts) print(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if !o.compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
