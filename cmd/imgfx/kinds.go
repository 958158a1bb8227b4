package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/imgfx"
)

func newKindsCmd(_ *app) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List filter kinds and their parameters",
		Long: `List every filter kind with its parameters, ranges and defaults.

Examples:
  imgfx kinds            # Table
  imgfx kinds --json     # Machine-readable catalogue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jsonOutput {
				return printCatalogueJSON(cmd)
			}
			return printCatalogue(cmd)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func printCatalogue(cmd *cobra.Command) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tPARAMETERS")
	for _, d := range imgfx.Catalogue() {
		params := make([]string, len(d.Params))
		for i, p := range d.Params {
			params[i] = fmt.Sprintf("%s[%s..%s]=%s", p.Name,
				formatFloat(p.Min), formatFloat(p.Max), formatFloat(p.Default))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Kind, d.Kind.DisplayName(), strings.Join(params, " "))
	}
	return tw.Flush()
}

type paramJSON struct {
	Name      string  `json:"name"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Default   float64 `json:"default"`
	Precision int     `json:"precision"`
}

type kindJSON struct {
	Kind   imgfx.Kind  `json:"kind"`
	Name   string      `json:"name"`
	Shape  string      `json:"shape"`
	Params []paramJSON `json:"params"`
}

func printCatalogueJSON(cmd *cobra.Command) error {
	cat := imgfx.Catalogue()
	out := make([]kindJSON, len(cat))
	for i, d := range cat {
		params := make([]paramJSON, len(d.Params))
		for j, p := range d.Params {
			params[j] = paramJSON(p)
		}
		out[i] = kindJSON{Kind: d.Kind, Name: d.Kind.DisplayName(), Shape: d.Shape.String(), Params: params}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
