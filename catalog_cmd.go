package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hubdeck/internal/ports"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the device kinds and hub ports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		catalog := ports.DefaultCatalog()
		if cfg.Catalog != "" {
			if catalog, err = ports.LoadCatalog(cfg.Catalog); err != nil {
				return err
			}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DEVICE\tUTILITY\tICON\tCOLOR\tEXAMPLES")
		for _, k := range catalog.Kinds {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", k.Type, k.UtilityID, k.Icon, k.Color, strings.Join(k.ExampleNames, ", "))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "PORT\tSIDE\tCOMPATIBLE")
		for _, p := range catalog.OrderedPorts() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Side, strings.Join(p.CompatibleDeviceTypes, ", "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
