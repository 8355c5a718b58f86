package cmd

import (
	"os"
	"strings"

	"github.com/sbskip/sbskip/color"
	"github.com/sbskip/sbskip/config"
	"github.com/sbskip/sbskip/style"
	"github.com/sbskip/sbskip/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only list variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only list variables that are unset")
	envCmd.Flags().BoolP("describe", "d", false, "Print the description of each variable")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

type envVar struct {
	name        string
	description string
}

// envVars lists every variable the program reads, sorted by name.
func envVars() []envVar {
	vars := lo.Map(config.EnvExposed, func(k string, _ int) envVar {
		field := config.Default[k]
		return envVar{name: field.Env(), description: field.Description}
	})
	vars = append(vars, envVar{name: where.EnvConfigPath, description: "Overrides the configuration directory"})

	slices.SortFunc(vars, func(a, b envVar) int {
		return strings.Compare(a.name, b.name)
	})
	return vars
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the supported environment variables",
	Long:  "List the supported environment variables and their values in the current process.",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))
		describe := lo.Must(cmd.Flags().GetBool("describe"))

		for _, v := range envVars() {
			value, present := os.LookupEnv(v.name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			if describe {
				for _, line := range strings.Split(v.description, "\n") {
					cmd.Println(style.Faint("# " + line))
				}
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(v.name), "=")
			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
