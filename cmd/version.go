package cmd

import (
	"encoding/json"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/sbskip/sbskip/color"
	"github.com/sbskip/sbskip/constant"
	"github.com/sbskip/sbskip/key"
	"github.com/sbskip/sbskip/player"
	"github.com/sbskip/sbskip/style"
	"github.com/sbskip/sbskip/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Display only the version string without metadata")
	versionCmd.Flags().Bool("json", false, "Print the build metadata as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build metadata",
	Long:  "Display the current application version, build revision, platform architecture, and related metadata.",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		mpvPath, err := exec.LookPath(player.Executable)
		if err != nil {
			mpvPath = "not found"
		}

		versionInfo := struct {
			App      string `json:"app"`
			Version  string `json:"version"`
			Revision string `json:"revision"`
			BuiltAt  string `json:"built_at"`
			BuiltBy  string `json:"built_by"`
			OS       string `json:"os"`
			Arch     string `json:"arch"`
			Server   string `json:"server"`
			Player   string `json:"player"`
		}{
			App:      constant.App,
			Version:  constant.Version,
			Revision: constant.Revision,
			BuiltAt:  strings.TrimSpace(constant.BuiltAt),
			BuiltBy:  constant.BuiltBy,
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			Server:   viper.GetString(key.APIServer),
			Player:   mpvPath,
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(versionInfo))
			return
		}

		defer version.Notify(cmd.OutOrStdout())

		t, err := template.New("version").Funcs(map[string]any{
			"faint":   style.Faint,
			"bold":    style.Bold,
			"magenta": style.Fg(color.Purple),
			"green":   style.Fg(color.Green),
		}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}     {{ bold .Version }}
  {{ faint "Commit" }}      {{ bold .Revision }}
  {{ faint "Built" }}       {{ bold .BuiltAt }} by {{ bold .BuiltBy }}
  {{ faint "Platform" }}    {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "Server" }}      {{ green .Server }}
  {{ faint "Player" }}      {{ .Player }}
`)
		handleErr(err)
		handleErr(t.Execute(cmd.OutOrStdout(), versionInfo))
	},
}
