package commands

import (
	"fmt"

	"github.com/Sternrassler/renewables-client/pkg/planning"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type planResult struct {
	Rules   planning.Rules `json:"rules" yaml:"rules"`
	NPlants int            `json:"n_plants" yaml:"n_plants"`
	Valid   bool           `json:"valid" yaml:"valid"`
}

func newPlanCommand(opts *globalOptions) *cobra.Command {
	var (
		rules       planning.Rules
		plantArea   float64
		plantEnergy float64
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Count how many plants fit the planning targets",
		Long: `Compute how many identical plants fit both the area target and the energy
target, and check that the targets stay within what is available.`,
		Example: "  ninja plan --area-target 1000 --energy-target 100000 --plant-area 20 --plant-energy 3037.5",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := rules.NPlantsFor(plantArea, plantEnergy)
			if err != nil {
				return err
			}

			result := planResult{Rules: rules, NPlants: n, Valid: rules.Valid()}

			return render(cmd.OutOrStdout(), opts.output, result, func(t *tablewriter.Table) error {
				t.Header("Property", "Value")
				return t.Bulk([][]string{
					{"Area target (m²)", formatNumber(rules.AreaTarget)},
					{"Energy target (kWh)", formatNumber(rules.EnergyTarget)},
					{"Area available (m²)", formatNumber(rules.AreaAvailable)},
					{"Energy available (kWh)", formatNumber(rules.EnergyAvailable)},
					{"Plants", fmt.Sprint(n)},
					{"Valid", fmt.Sprint(result.Valid)},
				})
			})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&rules.AreaTarget, "area-target", 0, "area to exploit in m²")
	f.Float64Var(&rules.EnergyTarget, "energy-target", 0, "production goal in kWh/year")
	f.Float64Var(&rules.AreaAvailable, "area-available", 0, "total exploitable area in m²")
	f.Float64Var(&rules.EnergyAvailable, "energy-available", 0, "total energy resource in kWh/year")
	f.Float64Var(&plantArea, "plant-area", 0, "area of one plant in m²")
	f.Float64Var(&plantEnergy, "plant-energy", 0, "yearly production of one plant in kWh")

	_ = cmd.MarkFlagRequired("area-target")
	_ = cmd.MarkFlagRequired("energy-target")
	_ = cmd.MarkFlagRequired("plant-area")
	_ = cmd.MarkFlagRequired("plant-energy")

	return cmd
}
