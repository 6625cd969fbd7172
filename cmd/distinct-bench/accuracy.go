// accuracy.go runs each configured scenario through every contender and
// reports relative error over the true heaviest labels.
//
// Two error figures are reported per contender. RMAE is the mean relative
// error over the true top k labels; RRMSE is the root mean square version,
// which amplifies the occasional badly-missed label. Both are computed
// against exact ground truth kept alongside the sketches during the run.

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/probkit/distinct/counthll"
	"github.com/probkit/distinct/hll"
	"github.com/probkit/distinct/sketch"
	"github.com/probkit/distinct/ssss"
)

// Fixed seeds so that runs are reproducible and comparable between code
// changes. Accuracy numbers from different machines line up exactly.
var (
	benchSamplerSeeds = []uint64{0, 1, 2, 3}
	benchCounterSeeds = []uint64{8, 9}
	benchPlaneSeeds   = []uint64{16, 17, 18}
)

func newAccuracyCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "accuracy",
		Short: "Measure sketch accuracy against exact ground truth",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := DefaultBenchConfig()
			if configPath != "" {
				var err error
				cfg, err = LoadBenchConfig(configPath)
				if err != nil {
					return err
				}
			}
			return runAccuracy(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML scenario file (omit for built-in scenarios)")

	return cmd
}

// contender pairs a name with a fresh sketch instance for one scenario run.
type contender struct {
	name   string
	sketch sketch.HeavyDistinctHitterSketch[string, string]
}

func newContenders(params SketchParams) ([]contender, error) {
	counterCfg, err := hll.NewConfig(params.Registers, benchCounterSeeds)
	if err != nil {
		return nil, errors.Wrap(err, "counter config")
	}
	ssssCfg, err := ssss.NewConfig(params.MaxCounters, counterCfg, benchSamplerSeeds)
	if err != nil {
		return nil, errors.Wrap(err, "ssss config")
	}
	planeCfg, err := counthll.NewConfig(params.Depth, params.Width, benchPlaneSeeds)
	if err != nil {
		return nil, errors.Wrap(err, "counthll config")
	}

	return []contender{
		{name: "ssss", sketch: ssss.New[string, string](ssssCfg)},
		{name: "counthll/set", sketch: counthll.NewLabelSet[string, string](planeCfg)},
		{name: "counthll/array", sketch: counthll.NewLabelArray[string, string](planeCfg)},
		{name: "hll-per-label", sketch: newPerLabelHLL()},
	}, nil
}

func runAccuracy(w io.Writer, cfg BenchConfig) error {
	for _, sc := range cfg.Scenarios {
		if err := runScenario(w, cfg, sc); err != nil {
			return errors.Wrapf(err, "scenario %q", sc.Name)
		}
	}
	return nil
}

func runScenario(w io.Writer, cfg BenchConfig, sc Scenario) error {
	stream, err := NewStream(sc)
	if err != nil {
		return err
	}
	contenders, err := newContenders(cfg.Sketch)
	if err != nil {
		return err
	}

	truth := NewGroundTruth[string, string]()
	for i := 0; i < sc.Entries; i++ {
		e := stream.Next()
		truth.Insert(e.Label, e.Item)
		for _, c := range contenders {
			c.sketch.Insert(e.Label, e.Item)
		}
	}

	fmt.Fprintf(w, "scenario %s: %d entries, %d labels, %s distribution\n",
		sc.Name, sc.Entries, truth.NumLabels(), sc.Distribution)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "algorithm\tRMAE@%d\tRRMSE@%d\n", cfg.TopK, cfg.TopK)
	for _, c := range contenders {
		fmt.Fprintf(tw, "%s\t%.2f%%\t%.2f%%\n",
			c.name,
			truth.RMAE(c.sketch, cfg.TopK)*100,
			truth.RRMSE(c.sketch, cfg.TopK)*100)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	return nil
}
