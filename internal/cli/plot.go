package cli

import (
	"github.com/spf13/cobra"

	"github.com/microlens-data/ulens/internal/frames"
	"github.com/microlens-data/ulens/internal/plot"
)

func init() {
	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "Render PNG plots for a converted parameter set",
	}

	trajCmd := &cobra.Command{
		Use:   "trajectory",
		Short: "Plot the source track relative to the lens in both frames",
		Run:   runPlotTrajectory,
	}
	curveCmd := &cobra.Command{
		Use:   "lightcurve",
		Short: "Plot the point-lens light curve in both frames",
		Run:   runPlotLightCurve,
	}

	for _, cmd := range []*cobra.Command{trajCmd, curveCmd} {
		addParamFlags(cmd)
		cmd.Flags().String("out", "", "Path to write the PNG")
		cmd.Flags().Float64("span", 2.0, "Plotted time span around t0 (Einstein times)")
		cmd.Flags().Int("points", 400, "Number of samples along the track")
		cmd.MarkFlagRequired("out")
		plotCmd.AddCommand(cmd)
	}

	RootCmd.AddCommand(plotCmd)
}

// convertedPair parses the shared parameter flags and converts the input
// set to the opposite frame.
func convertedPair(cmd *cobra.Command) (in, out frames.Params, conv frames.Conventions) {
	tgt, t0par, in, conv, err := paramArgs(cmd)
	if err != nil {
		exitErr("parse arguments", err)
	}

	prj := frames.NewProjector(nil)
	out, err = prj.ConvertTrajectory(tgt, t0par, in, conv)
	if err != nil {
		exitErr("convert", err)
	}
	return in, out, conv
}

func runPlotTrajectory(cmd *cobra.Command, args []string) {
	in, out, conv := convertedPair(cmd)
	path, _ := cmd.Flags().GetString("out")
	span, _ := cmd.Flags().GetFloat64("span")
	points, _ := cmd.Flags().GetInt("points")

	if err := plot.Trajectory(path, in, out, conv, span, points); err != nil {
		exitErr("plot trajectory", err)
	}
}

func runPlotLightCurve(cmd *cobra.Command, args []string) {
	in, out, conv := convertedPair(cmd)
	path, _ := cmd.Flags().GetString("out")
	span, _ := cmd.Flags().GetFloat64("span")
	points, _ := cmd.Flags().GetInt("points")

	if err := plot.LightCurve(path, in, out, conv, span, points); err != nil {
		exitErr("plot light curve", err)
	}
}
