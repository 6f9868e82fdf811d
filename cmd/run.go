/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/voltsim/gospm/spm"
)

type RunModel struct {
	ParamsFile string
	CRate      float64
	FinalTime  float64
	Order      int
	SampleStep float64
	SOC        float64
	OutFile    string
	PlotFile   string
	Verbose    bool
	Profile    bool
}

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a constant-current simulation of one cell",
	Long: `
Integrates the thermally coupled single particle model for one cell at a
fixed C-rate until the final time or a voltage cutoff, then writes the
sampled results,

gospm run -I cell.yaml -C 1 `,
	Run: func(cmd *cobra.Command, args []string) {
		rm := &RunModel{}
		rm.ParamsFile, _ = cmd.Flags().GetString("paramsFile")
		rm.CRate, _ = cmd.Flags().GetFloat64("cRate")
		rm.FinalTime, _ = cmd.Flags().GetFloat64("finalTime")
		rm.Order, _ = cmd.Flags().GetInt("n")
		rm.SampleStep, _ = cmd.Flags().GetFloat64("sampleStep")
		rm.SOC, _ = cmd.Flags().GetFloat64("soc")
		rm.OutFile, _ = cmd.Flags().GetString("output")
		rm.PlotFile, _ = cmd.Flags().GetString("plot")
		rm.Verbose, _ = cmd.Flags().GetBool("verbose")
		rm.Profile, _ = cmd.Flags().GetBool("profile")
		if rm.Profile {
			defer profile.Start().Stop()
		}
		if err := RunSimulation(rm); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("paramsFile", "I", "", "cell parameters file in yaml format, default parameters when empty")
	RunCmd.Flags().Float64P("cRate", "C", 1, "discharge rate relative to nominal capacity, negative charges")
	RunCmd.Flags().Float64("finalTime", 3600, "target end time for the sim in seconds")
	RunCmd.Flags().IntP("n", "n", 6, "collocation order per particle")
	RunCmd.Flags().Float64("sampleStep", 10, "output sampling interval in seconds")
	RunCmd.Flags().Float64("soc", 1, "initial state of charge in [0,1]")
	RunCmd.Flags().StringP("output", "o", "", "write sampled results as CSV to this file")
	RunCmd.Flags().String("plot", "", "write voltage and temperature curves as PNG to this file")
	RunCmd.Flags().BoolP("verbose", "v", false, "log per-run detail")
	RunCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
}

func processParams(rm *RunModel) (par *spm.Parameters, err error) {
	if len(rm.ParamsFile) == 0 {
		par = spm.DefaultParameters()
		fmt.Println("no parameters file supplied (-I, --paramsFile), using built-in cell:")
		par.Print()
		return par, nil
	}
	data, err := os.ReadFile(rm.ParamsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read parameters file: %w", err)
	}
	par = spm.DefaultParameters()
	if err = par.Parse(data); err != nil {
		return nil, fmt.Errorf("unable to parse parameters file: %w", err)
	}
	par.Print()
	return par, nil
}

func RunSimulation(rm *RunModel) (err error) {
	level := zerolog.InfoLevel
	if rm.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	par, err := processParams(rm)
	if err != nil {
		return err
	}
	m, err := spm.NewModel(par, rm.Order,
		spm.CRate(rm.CRate, par.NominalCapacity), spm.GraphiteOCV(), spm.LCOOCV())
	if err != nil {
		return err
	}
	cfg := spm.DefaultSimulationConfig()
	cfg.Order = rm.Order
	cfg.FinalTime = rm.FinalTime
	cfg.SampleInterval = rm.SampleStep
	cfg.InitialSOC = rm.SOC

	sim := spm.NewSimulator(m, cfg)
	sim.Log = log
	start := time.Now()
	res, err := sim.Run()
	if err != nil {
		var de *spm.DomainError
		if errors.As(err, &de) {
			return fmt.Errorf("simulation left the model's valid range, reduce the C-rate or raise the cutoff: %w", err)
		}
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("run complete")

	s := res.Series
	last := s.Len() - 1
	fmt.Printf("%8.1f\t= end time [s]\n", s.Time[last])
	fmt.Printf("%8.4f\t= terminal voltage [V]\n", s.Voltage[last])
	fmt.Printf("%8.2f\t= cell temperature [K]\n", s.Temperature[last])
	fmt.Printf("%8.3f\t= state of charge\n", s.SOC[last])
	if res.Terminated {
		fmt.Println("voltage cutoff reached")
	}

	if len(rm.OutFile) != 0 {
		if err = writeCSV(rm.OutFile, s); err != nil {
			return err
		}
		log.Info().Str("file", rm.OutFile).Msg("wrote results")
	}
	if len(rm.PlotFile) != 0 {
		if err = writePlot(rm.PlotFile, s); err != nil {
			return err
		}
		log.Info().Str("file", rm.PlotFile).Msg("wrote plot")
	}
	return nil
}

func writeCSV(path string, s *spm.ResultSeries) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err = w.Write([]string{
		"time_s", "current_A", "voltage_V", "temperature_K", "soc",
		"theta_anode", "theta_cathode", "eta_anode_V", "eta_cathode_V",
		"mean_conc_anode", "mean_conc_cathode",
		"q_irreversible_W", "q_reversible_W", "q_loss_W",
	}); err != nil {
		return err
	}
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', 9, 64) }
	for i := 0; i < s.Len(); i++ {
		if err = w.Write([]string{
			g(s.Time[i]), g(s.Current[i]), g(s.Voltage[i]), g(s.Temperature[i]), g(s.SOC[i]),
			g(s.ThetaAnode[i]), g(s.ThetaCathode[i]), g(s.EtaAnode[i]), g(s.EtaCathode[i]),
			g(s.MeanAnode[i]), g(s.MeanCathode[i]),
			g(s.HeatIrreversible[i]), g(s.HeatReversible[i]), g(s.HeatLoss[i]),
		}); err != nil {
			return err
		}
	}
	return nil
}
