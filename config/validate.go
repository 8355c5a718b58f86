package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/samber/lo"
	"github.com/sbskip/sbskip/key"
	"github.com/sbskip/sbskip/segment"
	"github.com/spf13/viper"
)

// Validate checks the merged settings, flags included, before a command
// hands them to the skipping core.
func Validate() error {
	var errs []error

	server, err := url.Parse(viper.GetString(key.APIServer))
	if err != nil || (server.Scheme != "http" && server.Scheme != "https") || server.Host == "" {
		errs = append(errs, fmt.Errorf("%s: %q is not an http(s) url", key.APIServer, viper.GetString(key.APIServer)))
	}

	unknown := lo.Reject(viper.GetStringSlice(key.APICategories), func(c string, _ int) bool {
		return segment.Category(c).Known()
	})
	if len(unknown) > 0 {
		errs = append(errs, fmt.Errorf("%s: unknown categories %v", key.APICategories, unknown))
	}

	if viper.GetFloat64(key.SkipThreshold) < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative", key.SkipThreshold))
	}

	for _, k := range []string{key.LocatorPollInterval, key.SkipNotifyDuration} {
		if viper.GetInt(k) <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be positive", k))
		}
	}

	return errors.Join(errs...)
}
