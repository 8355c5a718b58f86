package cmd

import (
	"fmt"

	"github.com/sbskip/sbskip/icon"
	"github.com/sbskip/sbskip/util"
	"github.com/sbskip/sbskip/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type clearTarget struct {
	name  string
	flag  string
	short mo.Option[string]
	path  func() string
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"logs directory", "logs", mo.Some("l"), where.Logs},
	{"browser profile", "browser", mo.Some("b"), where.Browser},
	{"temp directory", "temp", mo.None[string](), where.Temp},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, t := range clearTargets {
		clearCmd.Flags().BoolP(t.flag, t.short.OrEmpty(), false, "clear the "+t.name)
	}
	clearCmd.Flags().BoolP("all", "a", false, "clear everything above")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached and temporary files",
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		selected := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return all || lo.Must(cmd.Flags().GetBool(t.flag))
		})

		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, t := range selected {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), t.name))
			err := util.Delete(t.path())
			erase()
			handleErr(err)
			cmd.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(t.name))
		}
	},
}
