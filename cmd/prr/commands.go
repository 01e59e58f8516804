package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/skypies/lorarange/binning"
	"github.com/skypies/lorarange/plots"
	"github.com/skypies/lorarange/report"
)

var (
	fOutput string
)

// {{{ display, summary

var displayCmd = &cobra.Command{
	Use:   "display <date> <location> <sf> <tx>",
	Short: "Print every reconciled packet",
	Args:  experimentArgs(),
	RunE: withRun(func(cmd *cobra.Command, r *run) error {
		return report.Display(cmd.OutOrStdout(), r.recs)
	}),
}

var summaryCmd = &cobra.Command{
	Use:   "summary <date> <location> <sf> <tx>",
	Short: "Headline PRR and RSSI figures",
	Args:  experimentArgs(),
	RunE: withRun(func(cmd *cobra.Command, r *run) error {
		return report.NewSummary(r.exp.String(), r.recs).Write(cmd.OutOrStdout())
	}),
}

// }}}
// {{{ grid, radial

var gridCmd = &cobra.Command{
	Use:   "grid <date> <location> <sf> <tx>",
	Short: "PRR and mean RSSI per map tile",
	Args:  experimentArgs(),
	RunE: withRun(func(cmd *cobra.Command, r *run) error {
		return report.WriteGrid(cmd.OutOrStdout(), newGrid(r))
	}),
}

var radialCmd = &cobra.Command{
	Use:   "radial <date> <location> <sf> <tx>",
	Short: "PRR and mean RSSI per distance band",
	Args:  experimentArgs(),
	RunE: withRun(func(cmd *cobra.Command, r *run) error {
		return report.WriteRadial(cmd.OutOrStdout(), newRadial(r))
	}),
}

func newGrid(r *run) *binning.Grid {
	gc := r.cfg.Grid
	g := binning.NewGrid(gc.Bounds.SW.Latlong(), gc.Bounds.NE.Latlong(), gc.TileLat, gc.TileLong)
	g.Add(r.recs...)
	return g
}

func newRadial(r *run) *binning.Radial {
	rb := binning.NewRadial(r.cfg.Radial.BandMeters, r.cfg.Radial.MaxMeters)
	rb.Add(r.recs...)
	return rb
}

// }}}
// {{{ export, plot

var exportCmd = &cobra.Command{
	Use:   "export <date> <location> <sf> <tx> -o out.csv",
	Short: "Write the reconciled dataset as CSV",
	Args:  experimentArgs(),
	RunE: withRun(func(cmd *cobra.Command, r *run) error {
		if fOutput == "" || fOutput == "-" {
			return report.WriteCSV(cmd.OutOrStdout(), r.recs)
		}
		if err := report.WriteCSVFile(fOutput, r.recs); err != nil {
			return err
		}
		Log.Infof("wrote %d rows to %s", len(r.recs), fOutput)
		return nil
	}),
}

var plotCmd = &cobra.Command{
	Use:   "plot <date> <location> <sf> <tx> -o dir",
	Short: "Render RSSI, PRR and coverage charts as PNGs",
	Args:  experimentArgs(),
	RunE: withRun(func(cmd *cobra.Command, r *run) error {
		dir := fOutput
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create plot dir: %w", err)
		}

		pc := r.cfg.Plot
		opts := plots.Options{Width: vg.Length(pc.WidthInches) * vg.Inch, Height: vg.Length(pc.HeightInches) * vg.Inch}
		grad := report.NewGradient(r.recs, r.cfg.Colors.RSSIMin, r.cfg.Colors.RSSIMax)

		paths, err := plots.SaveAll(dir, r.exp.String(), r.recs, r.base, newRadial(r), grad, opts)
		if err != nil {
			return err
		}
		for _, p := range paths {
			Log.Infof("wrote %s", p)
		}
		return nil
	}),
}

// }}}

func init() {
	exportCmd.Flags().StringVarP(&fOutput, "output", "o", "", "CSV file to write (stdout if empty)")
	plotCmd.Flags().StringVarP(&fOutput, "output", "o", "", "directory for the PNGs")
}
