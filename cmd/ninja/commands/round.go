package commands

import (
	"fmt"
	"strconv"

	"github.com/Sternrassler/renewables-client/pkg/geo"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type roundResult struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

func newRoundCommand(opts *globalOptions) *cobra.Command {
	var (
		res     float64
		ndigits int
	)

	cmd := &cobra.Command{
		Use:   "round LAT LON",
		Short: "Snap coordinates to the request grid",
		Long: `Round coordinates the way plants do before querying renewables.ninja.
Plants whose coordinates snap to the same cell share one cached response.`,
		Example: `  ninja round 45.4451574 11.1331589
  ninja round -- -33.92 18.42`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q: %w", args[0], err)
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q: %w", args[1], err)
			}

			rounded := geo.RoundCoords(res, ndigits, lat, lon)
			result := roundResult{Lat: rounded[0], Lon: rounded[1]}

			return render(cmd.OutOrStdout(), opts.output, result, func(t *tablewriter.Table) error {
				t.Header("Lat", "Lon")
				return t.Append(formatNumber(result.Lat), formatNumber(result.Lon))
			})
		},
	}

	cmd.Flags().Float64Var(&res, "res", geo.DefaultResolution, "grid step in degrees (<= 0 disables snapping)")
	cmd.Flags().IntVar(&ndigits, "ndigits", geo.DefaultDigits, "decimals kept before snapping")

	return cmd
}
