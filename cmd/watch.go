package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sbskip/sbskip/constant"
	"github.com/sbskip/sbskip/engine"
	"github.com/sbskip/sbskip/key"
	"github.com/sbskip/sbskip/log"
	"github.com/sbskip/sbskip/network"
	"github.com/sbskip/sbskip/player"
	"github.com/sbskip/sbskip/sponsorblock"
	"github.com/sbskip/sbskip/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("title", "", "Window title of the player")
	watchCmd.Flags().String("socket", "", "Attach to a running mpv through its IPC socket instead of starting one")
	watchCmd.Flags().Bool("page-state", true, "Download the video page when its URL lacks the video id")
	lo.Must0(viper.BindPFlag(key.IdentityFetchPageState, watchCmd.Flags().Lookup("page-state")))
}

var watchCmd = &cobra.Command{
	Use:     "watch <url>",
	Short:   "Play a video in mpv and skip its segments",
	Example: constant.App + " watch https://www.bilibili.com/video/BV1GJ411x7h7",
	Args:    cobra.RangeArgs(0, 1),
	PreRun:  validateConfig,
	Run: func(cmd *cobra.Command, args []string) {
		socket := lo.Must(cmd.Flags().GetString("socket"))
		if socket == "" && len(args) == 0 {
			handleErr(errors.New("a video URL or --socket is required"))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		handleErr(watch(ctx, args, socket, lo.Must(cmd.Flags().GetString("title"))))
	},
}

func watch(ctx context.Context, args []string, socket, title string) error {
	var mpv *player.MPV
	if socket != "" {
		mpv = player.AttachMPV(socket)
	} else {
		CheckDependencies()
		if removed, err := player.RemoveStaleSockets(where.Temp()); err != nil {
			log.Warnf("clean temp directory: %v", err)
		} else if len(removed) > 0 {
			log.Debugf("removed %d stale mpv sockets", len(removed))
		}

		mpv = player.NewMPV()
		if err := mpv.Play(args[0], title, map[string]string{
			"Referer":    "https://www.bilibili.com/",
			"User-Agent": constant.UserAgent,
		}); err != nil {
			return err
		}
		defer func() { _ = mpv.Close() }()
	}

	host := player.NewHost(mpv, player.HostOptions{
		NotifyDuration: milliseconds(key.SkipNotifyDuration),
		PageState:      viper.GetBool(key.IdentityFetchPageState),
		Client:         network.NewClient(viper.GetBool(key.NetworkTLSFingerprint)),
	})

	listener := player.NewEventListener(mpv.Socket(), host.HandleEvent)
	if err := listener.Start(); err != nil {
		return err
	}
	defer listener.Stop()

	if err := host.Sync(); err != nil {
		return fmt.Errorf("read player state: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-listener.Done():
			log.Info("player closed")
			cancel()
		case <-ctx.Done():
		}
	}()

	provider := sponsorblock.New(providerOptions(), network.Client)
	return engine.New(host, provider, host, engineOptions()).Run(ctx)
}
