package cmd

import (
	"encoding/json"
	"strconv"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/spf13/cobra"

	"github.com/fchimpan/textloop/internal/keys"
)

type keyRow struct {
	Code     int    `json:"code"`
	Name     string `json:"name"`
	Extended bool   `json:"extended"`
}

func newKeysCmd(deps Deps) *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "keys",
		Short: "List key codes and their names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := keys.Entries()
			if asJSON {
				rows := make([]keyRow, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, keyRow{Code: int(e.Code), Name: e.Name, Extended: e.Code.IsExtended()})
				}
				enc := json.NewEncoder(deps.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			isTTY, width := false, 0
			if deps.Terminal != nil {
				isTTY, width = deps.Terminal()
			}
			tp := tableprinter.New(deps.Stdout, isTTY, width)
			tp.AddHeader([]string{"CODE", "NAME", "KIND"})
			for _, e := range entries {
				kind := "plain"
				if e.Code.IsExtended() {
					kind = "extended"
				}
				tp.AddField(strconv.Itoa(int(e.Code)))
				tp.AddField(e.Name)
				tp.AddField(kind)
				tp.EndRow()
			}
			return tp.Render()
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")
	return c
}
