package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sbskip/sbskip/browser"
	"github.com/sbskip/sbskip/constant"
	"github.com/sbskip/sbskip/engine"
	"github.com/sbskip/sbskip/key"
	"github.com/sbskip/sbskip/log"
	"github.com/sbskip/sbskip/network"
	"github.com/sbskip/sbskip/sponsorblock"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultBrowseURL = "https://www.bilibili.com/"

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().Bool("headless", false, "Run the browser without a window")
	lo.Must0(viper.BindPFlag(key.BrowserHeadless, browseCmd.Flags().Lookup("headless")))

	browseCmd.Flags().String("bin", "", "Path to the Chromium binary")
	lo.Must0(viper.BindPFlag(key.BrowserBin, browseCmd.Flags().Lookup("bin")))

	browseCmd.Flags().String("control-url", "", "DevTools websocket URL of a running browser")
}

var browseCmd = &cobra.Command{
	Use:     "browse [url]",
	Short:   "Open Bilibili in a browser and skip segments of every video played there",
	Example: constant.App + " browse https://www.bilibili.com/video/BV1GJ411x7h7",
	Args:    cobra.MaximumNArgs(1),
	PreRun:  validateConfig,
	Run: func(cmd *cobra.Command, args []string) {
		target := defaultBrowseURL
		if len(args) == 1 {
			target = args[0]
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		page, err := browser.Launch(ctx, browser.Options{
			URL:            target,
			ControlURL:     lo.Must(cmd.Flags().GetString("control-url")),
			Headless:       viper.GetBool(key.BrowserHeadless),
			Bin:            viper.GetString(key.BrowserBin),
			NotifyDuration: milliseconds(key.SkipNotifyDuration),
		})
		handleErr(err)
		defer func() { _ = page.Close() }()

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-page.Done():
				log.Info("browser closed")
				cancel()
			case <-ctx.Done():
			}
		}()

		provider := sponsorblock.New(providerOptions(), network.Client)
		handleErr(engine.New(page, provider, page, engineOptions()).Run(ctx))
	},
}
