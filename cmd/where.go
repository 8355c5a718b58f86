package cmd

import (
	"encoding/json"
	"os"

	"github.com/sbskip/sbskip/color"
	"github.com/sbskip/sbskip/style"
	"github.com/sbskip/sbskip/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type whereTarget struct {
	name   string
	path   func() string
	flag   string
	short  mo.Option[string]
	hidden bool
}

var whereTargets = []whereTarget{
	{"Config", where.Config, "config", mo.Some("c"), false},
	{"Logs", where.Logs, "logs", mo.Some("l"), false},
	{"Browser", where.Browser, "browser", mo.Some("b"), false},
	{"Cache", where.Cache, "cache", mo.None[string](), true},
	{"Temp", where.Temp, "temp", mo.None[string](), true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, t := range whereTargets {
		whereCmd.Flags().BoolP(t.flag, t.short.OrEmpty(), false, t.name+" path")
		if t.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(t.flag))
		}
	}

	whereCmd.Flags().Bool("json", false, "Print every path as a JSON object")
	whereCmd.MarkFlagsMutuallyExclusive(append(lo.Map(whereTargets, func(t whereTarget, _ int) string {
		return t.flag
	}), "json")...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show the paths of the configuration, logs and browser directories",
	Run: func(cmd *cobra.Command, args []string) {
		if t, ok := lo.Find(whereTargets, func(t whereTarget) bool {
			return lo.Must(cmd.Flags().GetBool(t.flag))
		}); ok {
			cmd.Println(t.path())
			return
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			paths := lo.SliceToMap(whereTargets, func(t whereTarget) (string, string) {
				return t.flag, t.path()
			})
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(paths))
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(whereTargets, func(t whereTarget, _ int) bool { return t.hidden })

		for i, t := range visible {
			cmd.Printf("%s %s\n", header(t.name+"?"), style.Fg(color.Yellow)("--"+t.flag))
			cmd.Println(t.path())

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}
