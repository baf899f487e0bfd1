package commands

import (
	"fmt"
	"time"

	"github.com/Sternrassler/renewables-client/pkg/batch"
	"github.com/Sternrassler/renewables-client/pkg/plant"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newFleetCommand(opts *globalOptions) *cobra.Command {
	var (
		concurrency int
		timeout     time.Duration
		raw         bool
		mean        string
	)

	cmd := &cobra.Command{
		Use:   "fleet FILE",
		Short: "Fetch the profiles of every plant in a fleet file",
		Long: `Load a YAML fleet file and fetch every plant's profile concurrently
through one shared cache and credential pool.

  plants:
    - id: roof
      kind: pv
      lat: 45.44
      lon: 11.13
      k_pv: 0.15
    - id: ridge
      kind: wind
      lat: 46.1
      lon: 11.2
      height: 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf := profileFlags{mean: mean}
			if err := pf.validate(); err != nil {
				return err
			}

			fleet, err := plant.LoadFleetFile(args[0])
			if err != nil {
				return err
			}

			session, err := opts.cfg.NewSession()
			if err != nil {
				return err
			}
			defer session.Close()

			batchCfg := batch.DefaultConfig()
			batchCfg.MaxConcurrency = opts.cfg.MaxConcurrency
			if concurrency > 0 {
				batchCfg.MaxConcurrency = concurrency
			}
			batchCfg.Timeout = timeout
			batchCfg.Options = session.Options
			batchCfg.Options.Raw = raw
			batchCfg.Options.Mean = mean

			results, fetchErr := batch.NewFetcher(session.Client, batchCfg).FetchAll(cmd.Context(), fleet.Plants)

			reports := make([]profileReport, 0, len(fleet.Plants))
			failed := 0
			for _, m := range fleet.Plants {
				r := results[m.Base().ID]
				report := newProfileReport(m, r.Profile, false)
				if r.Err != nil {
					report.Error = r.Err.Error()
					failed++
				}
				reports = append(reports, report)
			}

			err = render(cmd.OutOrStdout(), opts.output, reports, func(t *tablewriter.Table) error {
				t.Header("ID", "Kind", "Records", "Total", "Mean", "Error")
				for _, r := range reports {
					if err := t.Append(r.ID, string(r.Kind), fmt.Sprint(r.Records), formatNumber(r.Total), formatNumber(r.Mean), r.Error); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			if fetchErr != nil {
				return fetchErr
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d plants failed", failed, len(reports))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel requests (default MAX_CONCURRENCY)")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "timeout per plant")
	cmd.Flags().BoolVar(&raw, "raw", false, "request the raw irradiance or wind speed columns")
	cmd.Flags().StringVar(&mean, "mean", "", "aggregate the profiles (day, month)")

	return cmd
}
