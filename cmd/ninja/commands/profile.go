package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/renewables-client/pkg/plant"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// profileFlags are shared by the profile subcommands.
type profileFlags struct {
	raw     bool
	mean    string
	series  bool
	timeout time.Duration
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.raw, "raw", false, "request the raw irradiance or wind speed columns")
	cmd.Flags().StringVar(&f.mean, "mean", "", "aggregate the profile (day, month)")
	cmd.Flags().BoolVar(&f.series, "series", false, "print every record, not only the summary")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 60*time.Second, "request timeout")
}

func (f *profileFlags) validate() error {
	switch f.mean {
	case "", "day", "month":
		return nil
	default:
		return fmt.Errorf("invalid --mean %q (want day or month)", f.mean)
	}
}

func newProfileCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Fetch the hourly profile of a single plant",
	}

	cmd.AddCommand(newProfilePVCommand(opts))
	cmd.AddCommand(newProfileWindCommand(opts))
	cmd.AddCommand(newProfileSTCommand(opts))

	return cmd
}

func newProfilePVCommand(opts *globalOptions) *cobra.Command {
	cfg := plant.DefaultPVConfig()
	cfg.ID = "pv"
	pf := &profileFlags{}
	var irradiation float64

	cmd := &cobra.Command{
		Use:     "pv",
		Short:   "Photovoltaic plant profile",
		Example: "  ninja profile pv --lat 45.44 --lon 11.13 --k-pv 0.15",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pv, err := plant.NewPV(cfg)
			if err != nil {
				return err
			}
			if irradiation > 0 {
				pv.EnergyProduction = pv.ComputeEnergy(irradiation)
			}
			return runProfile(cmd, opts, pv, pf)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.ID, "id", cfg.ID, "plant identifier")
	f.Float64Var(&cfg.Lat, "lat", 0, "latitude")
	f.Float64Var(&cfg.Lon, "lon", 0, "longitude")
	f.Float64Var(&cfg.KPV, "k-pv", 0, "module efficiency at standard test conditions in kW/m²")
	f.Float64Var(&cfg.PeakPower, "peak-power", cfg.PeakPower, "peak power in kW")
	f.Float64Var(&cfg.Efficiency, "efficiency", cfg.Efficiency, "system efficiency in (0, 1]")
	f.IntVar(&cfg.Tracking, "tracking", cfg.Tracking, "0 fixed, 1 single axis, 2 dual axis")
	f.Float64Var(&cfg.Tilt, "tilt", cfg.Tilt, "panel tilt in degrees")
	f.Float64Var(&cfg.Azim, "azim", cfg.Azim, "panel azimuth in degrees")
	f.StringVar(&cfg.DateFrom, "date-from", cfg.DateFrom, "first day (YYYY-MM-DD)")
	f.StringVar(&cfg.DateTo, "date-to", cfg.DateTo, "last day (YYYY-MM-DD)")
	f.StringVar(&cfg.Dataset, "dataset", cfg.Dataset, "weather dataset")
	f.Float64Var(&irradiation, "irradiation", 0, "mean yearly irradiation in kWh/m² to estimate the annual energy")
	pf.register(cmd)

	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	_ = cmd.MarkFlagRequired("k-pv")

	return cmd
}

func newProfileWindCommand(opts *globalOptions) *cobra.Command {
	cfg := plant.DefaultWindConfig()
	cfg.ID = "wind"
	pf := &profileFlags{}
	var speed float64

	cmd := &cobra.Command{
		Use:     "wind",
		Short:   "Wind plant profile",
		Example: `  ninja profile wind --lat 46.1 --lon 11.2 --height 50 --model "Enercon E48 800"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := plant.NewWind(cfg)
			if err != nil {
				return err
			}
			if speed > 0 {
				energy, err := w.ComputeEnergy(speed, plant.DefaultWindOptions())
				if err != nil {
					return err
				}
				w.EnergyProduction = energy
			}
			return runProfile(cmd, opts, w, pf)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.ID, "id", cfg.ID, "plant identifier")
	f.Float64Var(&cfg.Lat, "lat", 0, "latitude")
	f.Float64Var(&cfg.Lon, "lon", 0, "longitude")
	f.Float64Var(&cfg.PeakPower, "peak-power", cfg.PeakPower, "peak power in kW")
	f.Float64Var(&cfg.Efficiency, "efficiency", cfg.Efficiency, "conversion efficiency in (0, 1]")
	f.Float64Var(&cfg.SweptArea, "swept-area", 0, "rotor swept area in m²")
	f.Float64Var(&cfg.Height, "height", 0, "hub height in m")
	f.StringVar(&cfg.Model, "model", "", "turbine model as named by renewables.ninja")
	f.StringVar(&cfg.DateFrom, "date-from", cfg.DateFrom, "first day (YYYY-MM-DD)")
	f.StringVar(&cfg.DateTo, "date-to", cfg.DateTo, "last day (YYYY-MM-DD)")
	f.StringVar(&cfg.Dataset, "dataset", cfg.Dataset, "weather dataset")
	f.Float64Var(&speed, "speed", 0, "mean wind speed in m/s to estimate the annual energy (needs --swept-area)")
	pf.register(cmd)

	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func newProfileSTCommand(opts *globalOptions) *cobra.Command {
	cfg := plant.DefaultSTConfig()
	cfg.ID = "st"
	pf := &profileFlags{}
	var irradiation float64

	cmd := &cobra.Command{
		Use:     "st",
		Short:   "Solar-thermal collector profile",
		Example: "  ninja profile st --lat 45.44 --lon 11.13 --area 12",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := plant.NewST(cfg)
			if err != nil {
				return err
			}
			if irradiation > 0 {
				st.EnergyProduction = st.ComputeEnergy(irradiation)
			}
			return runProfile(cmd, opts, st, pf)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.ID, "id", cfg.ID, "plant identifier")
	f.Float64Var(&cfg.Lat, "lat", 0, "latitude")
	f.Float64Var(&cfg.Lon, "lon", 0, "longitude")
	f.Float64Var(&cfg.Area, "area", 0, "collector surface in m²")
	f.Float64Var(&cfg.Efficiency, "efficiency", cfg.Efficiency, "collector efficiency in (0, 1]")
	f.Float64Var(&irradiation, "irradiation", 0, "mean yearly irradiation in kWh/m² to estimate the annual energy")
	pf.register(cmd)

	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	_ = cmd.MarkFlagRequired("area")

	return cmd
}

func runProfile(cmd *cobra.Command, opts *globalOptions, m plant.Model, pf *profileFlags) error {
	if err := pf.validate(); err != nil {
		return err
	}

	session, err := opts.cfg.NewSession()
	if err != nil {
		return err
	}
	defer session.Close()

	popts := session.Options
	popts.Raw = pf.raw
	popts.Mean = pf.mean

	ctx, cancel := context.WithTimeout(cmd.Context(), pf.timeout)
	defer cancel()

	profile, err := m.Profile(ctx, session.Client, popts)
	if err != nil {
		return err
	}

	report := newProfileReport(m, profile, pf.series)
	report.AnnualEnergy = m.Base().EnergyProduction

	return render(cmd.OutOrStdout(), opts.output, report, func(t *tablewriter.Table) error {
		t.Header("Property", "Value")
		rows := [][]string{
			{"Plant", report.ID},
			{"Kind", string(report.Kind)},
			{"Records", fmt.Sprint(report.Records)},
			{"Total", formatNumber(report.Total)},
			{"Mean", formatNumber(report.Mean)},
			{"Min", formatNumber(report.Min)},
			{"Max", formatNumber(report.Max)},
		}
		if report.AnnualEnergy > 0 {
			rows = append(rows, []string{"Annual energy (kWh)", formatNumber(report.AnnualEnergy)})
		}
		for _, p := range report.Series {
			rows = append(rows, []string{p.Time.UTC().Format(timeLayout), formatNumber(p.Output)})
		}
		return t.Bulk(rows)
	})
}
