package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the column order of the pipe table export
var csvHeader = []string{
	"id", "type", "category", "from_node", "to_node", "length_m",
	"buildings", "flow_kg_s", "diameter_mm", "velocity_ms",
	"pressure_drop_pa_per_m", "thermal_loss_w", "cost_per_m",
}

// WritePipesCSV writes the pipe records as a CSV table
func (r *RunReport) WritePipesCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, p := range r.Pipes {
		row := []string{
			p.ID,
			p.Type,
			p.Category,
			strconv.Itoa(p.FromNode),
			strconv.Itoa(p.ToNode),
			formatFloat(p.LengthM),
			strconv.Itoa(p.Buildings),
			formatFloat(p.FlowKgS),
			formatFloat(p.DiameterMM),
			formatFloat(p.VelocityMS),
			formatFloat(p.PressureDropPaM),
			formatFloat(p.ThermalLossW),
			formatFloat(p.CostPerM),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for pipe %s: %w", p.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
