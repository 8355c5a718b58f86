package cmd

import (
	"time"

	"github.com/sbskip/sbskip/config"
	"github.com/sbskip/sbskip/engine"
	"github.com/sbskip/sbskip/key"
	"github.com/sbskip/sbskip/segment"
	"github.com/sbskip/sbskip/sponsorblock"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// The core receives snapshots of the configuration taken once at startup.

func engineOptions() engine.Options {
	return engine.Options{
		Threshold:    viper.GetFloat64(key.SkipThreshold),
		PollInterval: milliseconds(key.LocatorPollInterval),
		Notify:       viper.GetBool(key.SkipNotify),
		Badge:        viper.GetBool(key.SkipBadge),
	}
}

func providerOptions() sponsorblock.Options {
	return sponsorblock.Options{
		BaseURL:     viper.GetString(key.APIServer),
		Categories:  lo.Map(viper.GetStringSlice(key.APICategories), func(c string, _ int) segment.Category { return segment.Category(c) }),
		ActionTypes: viper.GetStringSlice(key.APIActionTypes),
		Enabled:     viper.GetBool(key.SkipEnable),
	}
}

func validateConfig(*cobra.Command, []string) {
	handleErr(config.Validate())
}

func milliseconds(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Millisecond
}

func completionCategories(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(segment.AllCategories(), func(c segment.Category, _ int) string { return string(c) }), cobra.ShellCompDirectiveNoFileComp
}
