package main

import (
	"fmt"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GlobalManagement/xclim/indices"
	"github.com/GlobalManagement/xclim/ncio"
)

var indicesCmd = &cobra.Command{
	Use:   "indices file.nc",
	Short: "compute builtin indicators from a NetCDF variable",
	Long: `Computes one or more builtin indicators from a daily NetCDF variable and
writes each result as a CSV table next to the output prefix.

  xclim indices --var tasmin --ind frost_days --freq YS obs.nc`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vname := viper.GetString("var")
		freq := viper.GetString("freq")
		outp := viper.GetString("out")
		idents := strings.Split(viper.GetString("ind"), ",")

		tt := mmio.NewTimer()
		da, err := ncio.ReadVar(args[0], vname)
		if err != nil {
			return err
		}
		tt.Lap("load")

		builtins := indices.Builtins()
		uiprogress.Start()
		bar := uiprogress.AddBar(len(idents)).AppendCompleted().PrependElapsed()
		current := ""
		bar.PrependFunc(func(b *uiprogress.Bar) string { return current })
		for _, id := range idents {
			id = strings.TrimSpace(id)
			ind, ok := builtins[id]
			if !ok {
				uiprogress.Stop()
				return fmt.Errorf("unknown indicator %q (see: xclim info)", id)
			}
			current = id
			out, err := ind.Call(freq, da)
			if err != nil {
				uiprogress.Stop()
				return err
			}
			if err := ncio.WriteCSV(fmt.Sprintf("%s%s.csv", outp, id), out); err != nil {
				uiprogress.Stop()
				return err
			}
			bar.Incr()
		}
		uiprogress.Stop()
		tt.Lap("indices")
		tt.Print("done")
		return nil
	},
}

func init() {
	indicesCmd.Flags().String("var", "", "input variable name")
	indicesCmd.Flags().String("ind", "", "comma-separated indicator identifiers")
	indicesCmd.Flags().String("freq", "YS", "resampling frequency (YS, AS-JUL, QS-DEC, MS)")
	indicesCmd.Flags().String("out", "", "output file prefix")
	indicesCmd.MarkFlagRequired("var")
	indicesCmd.MarkFlagRequired("ind")
	viper.BindPFlags(indicesCmd.Flags())
}
