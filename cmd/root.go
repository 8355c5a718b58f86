// Package cmd implements the sbskip command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sbskip/sbskip/color"
	"github.com/sbskip/sbskip/constant"
	"github.com/sbskip/sbskip/icon"
	"github.com/sbskip/sbskip/key"
	"github.com/sbskip/sbskip/log"
	"github.com/sbskip/sbskip/style"
	"github.com/sbskip/sbskip/version"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().String("server", "", "Base URL of the segment database")
	lo.Must0(viper.BindPFlag(key.APIServer, rootCmd.PersistentFlags().Lookup("server")))

	rootCmd.PersistentFlags().StringSliceP("category", "C", nil, "Segment categories to look up")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("category", completionCategories))
	lo.Must0(viper.BindPFlag(key.APICategories, rootCmd.PersistentFlags().Lookup("category")))

	rootCmd.PersistentFlags().Float64P("threshold", "t", 0, "Minimum duration in seconds of a skipped segment")
	lo.Must0(viper.BindPFlag(key.SkipThreshold, rootCmd.PersistentFlags().Lookup("threshold")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify(cmd.OutOrStdout())
	})
}

var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Skip sponsored segments of Bilibili videos",
	Long: constant.Banner + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Skip sponsored segments of Bilibili videos"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute runs the command line.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
