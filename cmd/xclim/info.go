package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/GlobalManagement/xclim/indices"
	"github.com/GlobalManagement/xclim/ncio"
)

var infoCmd = &cobra.Command{
	Use:   "info [file.nc]",
	Short: "list the variables of a NetCDF file, or the builtin indicators",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			ids := make([]string, 0)
			builtins := indices.Builtins()
			for id := range builtins {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				ind := builtins[id]
				fmt.Printf("%-22s [%s]  %s\n", id, ind.Units, ind.Title)
			}
			return nil
		}
		vars, err := ncio.ListVars(args[0])
		if err != nil {
			return err
		}
		sort.Strings(vars)
		for _, v := range vars {
			fmt.Println(v)
		}
		return nil
	},
}
