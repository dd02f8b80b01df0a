package cli

import (
	"github.com/spf13/cobra"

	"github.com/microlens-data/ulens/internal/frames"
)

type pieSet struct {
	PiEE float64 `json:"piEE"`
	PiEN float64 `json:"piEN"`
	TE   float64 `json:"tE"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "pie",
		Short: "Convert a parallax vector and tE between frames",
		Run:   runPiE,
	}

	cmd.Flags().String("ra", "", "Target right ascension (decimal degrees or sexagesimal hours)")
	cmd.Flags().String("dec", "", "Target declination (decimal degrees or sexagesimal)")
	cmd.Flags().Float64("t0par", 0, "Reference epoch of the geocentric projection (MJD)")
	cmd.Flags().Float64("piee", 0, "Parallax vector East component")
	cmd.Flags().Float64("pien", 0, "Parallax vector North component")
	cmd.Flags().Float64("te", 0, "Einstein crossing time (days)")
	cmd.Flags().String("from", "helio", "Input frame: helio or geo")
	cmd.Flags().String("output", "", "Path to write the result JSON (stdout if omitted)")

	cmd.MarkFlagRequired("ra")
	cmd.MarkFlagRequired("dec")
	cmd.MarkFlagRequired("t0par")
	cmd.MarkFlagRequired("te")

	RootCmd.AddCommand(cmd)
}

func runPiE(cmd *cobra.Command, args []string) {
	ra, _ := cmd.Flags().GetString("ra")
	dec, _ := cmd.Flags().GetString("dec")
	t0par, _ := cmd.Flags().GetFloat64("t0par")
	piEE, _ := cmd.Flags().GetFloat64("piee")
	piEN, _ := cmd.Flags().GetFloat64("pien")
	tE, _ := cmd.Flags().GetFloat64("te")
	fromFlag, _ := cmd.Flags().GetString("from")
	output, _ := cmd.Flags().GetString("output")

	tgt, err := frames.ParseTarget(ra, dec)
	if err != nil {
		exitErr("parse target", err)
	}
	from, err := frames.ParseFrame(fromFlag)
	if err != nil {
		exitErr("parse frame", err)
	}

	prj := frames.NewProjector(nil)
	outE, outN, outTE, err := prj.ConvertPiETE(tgt, t0par, piEE, piEN, tE, from)
	if err != nil {
		exitErr("convert", err)
	}

	result := map[string]any{
		"t0par":              t0par,
		string(from):         pieSet{PiEE: piEE, PiEN: piEN, TE: tE},
		string(from.Other()): pieSet{PiEE: outE, PiEN: outN, TE: outTE},
	}
	if err := writePayload(cmd, output, result); err != nil {
		exitErr("write result", err)
	}
}
