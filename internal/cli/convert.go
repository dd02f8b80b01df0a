package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microlens-data/ulens/internal/adapters"
	"github.com/microlens-data/ulens/internal/catalog"
	"github.com/microlens-data/ulens/internal/config"
	"github.com/microlens-data/ulens/internal/convert"
	"github.com/microlens-data/ulens/internal/monitoring"
	"github.com/microlens-data/ulens/internal/timeutil"
)

func init() {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a parameter payload between modeling packages",
		Run:   runConvert,
	}

	cmd.Flags().String("source", "", "Source package: bagle, gulls, mulensmodel or vbm")
	cmd.Flags().String("target", "", "Target package (omit to print the canonical model)")
	cmd.Flags().String("observer", "earth", "Observer location for the geocentric projection")
	cmd.Flags().String("origin", "", "Coordinate origin for the target payload (package default if omitted)")
	cmd.Flags().String("input", "", "Path to the source payload (JSON or YAML by extension)")
	cmd.Flags().String("output", "", "Path to write the result JSON (stdout if omitted)")
	cmd.Flags().StringSlice("epochs", nil, "Epochs at which time-dependent origins are evaluated (MJD or RFC 3339)")
	cmd.Flags().Bool("record", false, "Record the conversion in the event catalog")
	cmd.Flags().String("event", "", "Event name to record the conversion under")
	cmd.Flags().String("db", "", "Catalog database path (ULENS_DB or ulens.db if omitted)")

	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("input")

	RootCmd.AddCommand(cmd)
}

func runConvert(cmd *cobra.Command, args []string) {
	source, _ := cmd.Flags().GetString("source")
	target, _ := cmd.Flags().GetString("target")
	observer, _ := cmd.Flags().GetString("observer")
	origin, _ := cmd.Flags().GetString("origin")
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	epochFlags, _ := cmd.Flags().GetStringSlice("epochs")
	record, _ := cmd.Flags().GetBool("record")
	event, _ := cmd.Flags().GetString("event")
	dbPath, _ := cmd.Flags().GetString("db")

	epochs, err := parseEpochs(epochFlags)
	if err != nil {
		exitErr("parse epochs", err)
	}
	payload, err := loadPayload(input)
	if err != nil {
		exitErr("load input", err)
	}

	conv, err := convert.New(source, payload, observer, epochs)
	if err != nil {
		exitErr("load parameters", err)
	}

	var result adapters.Payload
	if target == "" {
		m := conv.Model()
		result = adapters.Payload{"scalars": m.Scalars, "meta": m.Meta}
	} else {
		h, err := conv.ToPackage(target, observer, origin)
		if err != nil {
			exitErr("convert", err)
		}
		result = h.Params
	}

	if record {
		if target == "" || event == "" {
			exitErr("record conversion", errors.New("--record requires --target and --event"))
		}
		id, err := recordConversion(dbPath, event, source, target, observer, origin, payload, result, conv.Model().Meta)
		if err != nil {
			exitErr("record conversion", err)
		}
		monitoring.Logf("recorded conversion %s for event %s", id, event)
	}

	if err := writePayload(cmd, output, result); err != nil {
		exitErr("write result", err)
	}
}

// parseEpochs reads epoch flag values, each either an MJD number or an
// RFC 3339 timestamp.
func parseEpochs(values []string) ([]float64, error) {
	if len(values) == 0 {
		return nil, nil
	}
	epochs := make([]float64, len(values))
	for i, v := range values {
		mjd, err := timeutil.ParseEpoch(v)
		if err != nil {
			return nil, err
		}
		epochs[i] = mjd
	}
	return epochs, nil
}

// recordConversion upserts the event and stores one conversion record,
// returning the record ID. The database path falls back to the environment
// configuration when the --db flag is empty.
func recordConversion(dbPath, event, source, target, observer, origin string, input, output adapters.Payload, meta map[string]any) (string, error) {
	if dbPath == "" {
		cfg, err := config.FromEnv()
		if err != nil {
			return "", err
		}
		dbPath = cfg.DBPath
	}
	cat, err := catalog.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer cat.Close()

	ev := catalog.Event{Name: event, Payload: input}
	if v, ok := meta["raL"]; ok {
		ev.RA = fmt.Sprintf("%v", v)
	}
	if v, ok := meta["decL"]; ok {
		ev.Dec = fmt.Sprintf("%v", v)
	}
	if err := cat.SaveEvent(ev); err != nil {
		return "", err
	}

	return cat.RecordConversion(catalog.Conversion{
		Event:         event,
		SourcePackage: source,
		TargetPackage: target,
		Observer:      observer,
		Origin:        origin,
		Input:         input,
		Output:        output,
	})
}
