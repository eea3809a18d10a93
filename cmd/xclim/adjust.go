package main

import (
	"fmt"

	"github.com/maseology/mmio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GlobalManagement/xclim/ncio"
	"github.com/GlobalManagement/xclim/sdba"
	"github.com/GlobalManagement/xclim/series"
)

var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "train a quantile-mapping correction and apply it to a simulation",
	Long: `Trains a bias-adjustment estimator on a reference and a historical
simulation, applies it to a (possibly future) simulation and writes the
corrected series as CSV.

  xclim adjust --method qdm --kind '*' --var pr --group time.month \
    --ref obs.nc --hist hist.nc --sim rcp85.nc --out pr_adj`,
	RunE: func(cmd *cobra.Command, args []string) error {
		vname := viper.GetString("var")
		tt := mmio.NewTimer()

		load := func(key string) (*series.DataArray, error) {
			fp := viper.GetString(key)
			if fp == "" {
				return nil, fmt.Errorf("--%s is required", key)
			}
			return ncio.ReadVar(fp, vname)
		}
		ref, err := load("ref")
		if err != nil {
			return err
		}
		hist, err := load("hist")
		if err != nil {
			return err
		}
		sim, err := load("sim")
		if err != nil {
			return err
		}
		tt.Lap("load")

		g, err := sdba.NewGrouper(viper.GetString("group"), viper.GetInt("window"))
		if err != nil {
			return err
		}
		kind := sdba.Additive
		if viper.GetString("kind") == "*" {
			kind = sdba.Multiplicative
		}
		nq := viper.GetInt("nq")

		if kind == sdba.Multiplicative {
			if th := viper.GetString("jitter-under"); th != "" {
				seed := viper.GetInt64("seed")
				if ref, err = sdba.JitterUnderThresh(ref, th, seed); err != nil {
					return err
				}
				if hist, err = sdba.JitterUnderThresh(hist, th, seed+1); err != nil {
					return err
				}
				if sim, err = sdba.JitterUnderThresh(sim, th, seed+2); err != nil {
					return err
				}
				tt.Lap("jitter")
			}
		}

		var scen *series.DataArray
		switch method := viper.GetString("method"); method {
		case "eqm":
			m := sdba.NewEQM(nq, kind, g)
			if err := m.Train(ref, hist); err != nil {
				return err
			}
			tt.Lap("train")
			if scen, err = m.Adjust(sim); err != nil {
				return err
			}
		case "dqm":
			m := sdba.NewDQM(nq, kind, g)
			if err := m.Train(ref, hist); err != nil {
				return err
			}
			tt.Lap("train")
			if scen, err = m.Adjust(sim, nil); err != nil {
				return err
			}
		case "qdm":
			m := sdba.NewQDM(nq, kind, g)
			if err := m.Train(ref, hist); err != nil {
				return err
			}
			tt.Lap("train")
			if scen, _, err = m.Adjust(sim); err != nil {
				return err
			}
		case "scaling":
			m := sdba.NewScaling(kind, g)
			if err := m.Train(ref, hist); err != nil {
				return err
			}
			tt.Lap("train")
			if scen, err = m.Adjust(sim); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown method %q (eqm, dqm, qdm, scaling)", method)
		}
		tt.Lap("adjust")

		outp := viper.GetString("out")
		if err := ncio.WriteCSV(outp+".csv", scen); err != nil {
			return err
		}
		if viper.GetBool("bins") {
			if err := ncio.WriteBins(outp+"_bins", scen); err != nil {
				return err
			}
		}
		tt.Print("done")
		return nil
	},
}

func init() {
	adjustCmd.Flags().String("var", "", "variable name, common to the three files")
	adjustCmd.Flags().String("ref", "", "reference NetCDF file")
	adjustCmd.Flags().String("hist", "", "historical simulation NetCDF file")
	adjustCmd.Flags().String("sim", "", "simulation NetCDF file to correct")
	adjustCmd.Flags().String("method", "eqm", "eqm, dqm, qdm or scaling")
	adjustCmd.Flags().String("kind", "+", "factor kind: + or *")
	adjustCmd.Flags().String("group", "time", "time, time.month, time.season or time.dayofyear")
	adjustCmd.Flags().Int("window", 1, "odd group window")
	adjustCmd.Flags().Int("nq", 50, "quantile nodes")
	adjustCmd.Flags().String("jitter-under", "", `jitter threshold for multiplicative data, e.g. "0.01 mm/d"`)
	adjustCmd.Flags().Int64("seed", 1, "jitter stream seed")
	adjustCmd.Flags().Bool("bins", false, "also dump per-location float32 binaries")
	adjustCmd.Flags().String("out", "scen", "output prefix")
	adjustCmd.MarkFlagRequired("var")
	viper.BindPFlags(adjustCmd.Flags())
}
