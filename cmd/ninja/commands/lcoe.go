package commands

import (
	"github.com/Sternrassler/renewables-client/pkg/finance"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type lcoeResult struct {
	InvestmentCost float64 `json:"investment_cost" yaml:"investment_cost"`
	YearlyCost     float64 `json:"yearly_cost" yaml:"yearly_cost"`
	PlantLife      int     `json:"plant_life" yaml:"plant_life"`
	Energy         float64 `json:"energy" yaml:"energy"`
	Rate           float64 `json:"rate" yaml:"rate"`
	LCOE           float64 `json:"lcoe" yaml:"lcoe"`
}

func newLCOECommand(opts *globalOptions) *cobra.Command {
	var (
		investment float64
		yearly     float64
		life       int
		energy     float64
		rate       float64
	)

	cmd := &cobra.Command{
		Use:     "lcoe",
		Short:   "Levelized cost of energy in €/kWh",
		Example: "  ninja lcoe --investment 7473340 --yearly-cost 4918 --life 27 --energy 6962999",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := finance.New(investment, yearly, life)
			if err != nil {
				return err
			}
			value, err := f.LCOE(energy, rate)
			if err != nil {
				return err
			}

			result := lcoeResult{
				InvestmentCost: investment,
				YearlyCost:     yearly,
				PlantLife:      life,
				Energy:         energy,
				Rate:           rate,
				LCOE:           value,
			}

			return render(cmd.OutOrStdout(), opts.output, result, func(t *tablewriter.Table) error {
				t.Header("Property", "Value")
				return t.Bulk([][]string{
					{"Investment (€)", formatNumber(investment)},
					{"Yearly cost (€)", formatNumber(yearly)},
					{"Plant life (years)", formatNumber(float64(life))},
					{"Energy (kWh/year)", formatNumber(energy)},
					{"Discount rate", formatNumber(rate)},
					{"LCOE (€/kWh)", formatNumber(value)},
				})
			})
		},
	}

	cmd.Flags().Float64Var(&investment, "investment", 0, "up-front investment in €")
	cmd.Flags().Float64Var(&yearly, "yearly-cost", 0, "yearly cost in €")
	cmd.Flags().IntVar(&life, "life", 0, "plant life in years")
	cmd.Flags().Float64Var(&energy, "energy", 0, "yearly production in kWh")
	cmd.Flags().Float64Var(&rate, "rate", finance.DefaultDiscountRate, "discount rate")

	_ = cmd.MarkFlagRequired("investment")
	_ = cmd.MarkFlagRequired("life")
	_ = cmd.MarkFlagRequired("energy")

	return cmd
}
