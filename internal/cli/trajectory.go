package cli

import (
	"github.com/spf13/cobra"

	"github.com/microlens-data/ulens/internal/frames"
)

func init() {
	cmd := &cobra.Command{
		Use:   "trajectory",
		Short: "Convert a full parameter set between frames",
		Run:   runTrajectory,
	}
	addParamFlags(cmd)
	cmd.Flags().String("output", "", "Path to write the result JSON (stdout if omitted)")
	RootCmd.AddCommand(cmd)
}

// addParamFlags registers the parameter-set and convention flags shared by
// the trajectory and plot commands.
func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().String("ra", "", "Target right ascension (decimal degrees or sexagesimal hours)")
	cmd.Flags().String("dec", "", "Target declination (decimal degrees or sexagesimal)")
	cmd.Flags().Float64("t0par", 0, "Reference epoch of the geocentric projection (MJD)")
	cmd.Flags().Float64("t0", 0, "Peak time (MJD)")
	cmd.Flags().Float64("u0", 0, "Signed impact parameter (Einstein radii)")
	cmd.Flags().Float64("te", 0, "Einstein crossing time (days)")
	cmd.Flags().Float64("piee", 0, "Parallax vector East component")
	cmd.Flags().Float64("pien", 0, "Parallax vector North component")
	cmd.Flags().String("from", "helio", "Input frame: helio or geo")
	cmd.Flags().String("murel-in", "SL", "Input proper-motion convention: SL or LS")
	cmd.Flags().String("murel-out", "LS", "Output proper-motion convention: SL or LS")
	cmd.Flags().String("coord-in", "EN", "Input u0 sign basis: EN or tb")
	cmd.Flags().String("coord-out", "tb", "Output u0 sign basis: EN or tb")

	cmd.MarkFlagRequired("ra")
	cmd.MarkFlagRequired("dec")
	cmd.MarkFlagRequired("t0par")
	cmd.MarkFlagRequired("t0")
	cmd.MarkFlagRequired("u0")
	cmd.MarkFlagRequired("te")
}

// paramArgs parses the flags registered by addParamFlags.
func paramArgs(cmd *cobra.Command) (tgt frames.Target, t0par float64, in frames.Params, conv frames.Conventions, err error) {
	ra, _ := cmd.Flags().GetString("ra")
	dec, _ := cmd.Flags().GetString("dec")
	if tgt, err = frames.ParseTarget(ra, dec); err != nil {
		return
	}

	t0par, _ = cmd.Flags().GetFloat64("t0par")
	in.T0, _ = cmd.Flags().GetFloat64("t0")
	in.U0, _ = cmd.Flags().GetFloat64("u0")
	in.TE, _ = cmd.Flags().GetFloat64("te")
	in.PiEE, _ = cmd.Flags().GetFloat64("piee")
	in.PiEN, _ = cmd.Flags().GetFloat64("pien")

	fromFlag, _ := cmd.Flags().GetString("from")
	murelIn, _ := cmd.Flags().GetString("murel-in")
	murelOut, _ := cmd.Flags().GetString("murel-out")
	coordIn, _ := cmd.Flags().GetString("coord-in")
	coordOut, _ := cmd.Flags().GetString("coord-out")

	if conv.Frame, err = frames.ParseFrame(fromFlag); err != nil {
		return
	}
	if conv.MuRelIn, err = frames.ParseMuRel(murelIn); err != nil {
		return
	}
	if conv.MuRelOut, err = frames.ParseMuRel(murelOut); err != nil {
		return
	}
	if conv.CoordIn, err = frames.ParseBasis(coordIn); err != nil {
		return
	}
	if conv.CoordOut, err = frames.ParseBasis(coordOut); err != nil {
		return
	}
	return
}

func runTrajectory(cmd *cobra.Command, args []string) {
	tgt, t0par, in, conv, err := paramArgs(cmd)
	if err != nil {
		exitErr("parse arguments", err)
	}
	output, _ := cmd.Flags().GetString("output")

	prj := frames.NewProjector(nil)
	out, err := prj.ConvertTrajectory(tgt, t0par, in, conv)
	if err != nil {
		exitErr("convert", err)
	}

	result := map[string]any{
		"t0par":     t0par,
		"murel_in":  conv.MuRelIn,
		"murel_out": conv.MuRelOut,
		"coord_in":  conv.CoordIn,
		"coord_out": conv.CoordOut,
	}
	result[string(conv.Frame)] = in
	result[string(conv.Frame.Other())] = out
	if err := writePayload(cmd, output, result); err != nil {
		exitErr("write result", err)
	}
}
