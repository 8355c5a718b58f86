package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sbskip/sbskip/color"
	"github.com/sbskip/sbskip/constant"
	"github.com/sbskip/sbskip/icon"
	"github.com/sbskip/sbskip/identity"
	"github.com/sbskip/sbskip/key"
	"github.com/sbskip/sbskip/network"
	"github.com/sbskip/sbskip/segment"
	"github.com/sbskip/sbskip/skip"
	"github.com/sbskip/sbskip/sponsorblock"
	"github.com/sbskip/sbskip/style"
	"github.com/sbskip/sbskip/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const lookupTimeout = 15 * time.Second

func init() {
	rootCmd.AddCommand(segmentsCmd)

	segmentsCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	segmentsCmd.Flags().BoolP("all", "a", false, "Include segments shorter than the skip threshold")
	segmentsCmd.Flags().Bool("schema", false, "Print the JSON schema of the output and exit")
	segmentsCmd.Flags().Bool("url", false, "Print the lookup URL instead of performing it")
}

var segmentsCmd = &cobra.Command{
	Use:   "segments <url|BV id|av id>",
	Short: "List the known segments of a video",
	Example: constant.App + " segments BV1GJ411x7h7\n" +
		constant.App + " segments --json https://www.bilibili.com/video/av170001",
	PreRun: validateConfig,
	Args: func(cmd *cobra.Command, args []string) error {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			return nil
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(printSchema(out))
			return
		}

		id, err := resolveArg(cmd.Context(), args[0])
		handleErr(err)

		client := sponsorblock.New(providerOptions(), network.Client)
		if lo.Must(cmd.Flags().GetBool("url")) {
			_, _ = fmt.Fprintln(out, client.RequestURL(id))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		erase := util.PrintErasable(fmt.Sprintf("%s Looking up %s...", icon.Get(icon.Progress), id))
		segments, err := client.Lookup(ctx, id)
		erase()
		handleErr(err)

		if !lo.Must(cmd.Flags().GetBool("all")) {
			segments = segment.Qualifying(segments, viper.GetFloat64(key.SkipThreshold))
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(segments))
			return
		}

		printSegments(out, id, segments)
	},
}

// resolveArg parses arg, falling back to the page's embedded state for URLs without ids.
func resolveArg(ctx context.Context, arg string) (identity.Identity, error) {
	id, err := identity.Parse(arg)
	if err == nil {
		return id, nil
	}

	u, uerr := url.Parse(arg)
	if !errors.Is(err, identity.ErrUnresolvable) || uerr != nil || u.Host == "" || !viper.GetBool(key.IdentityFetchPageState) {
		return id, err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	state, serr := identity.FetchPageState(ctx, network.NewClient(viper.GetBool(key.NetworkTLSFingerprint)), u)
	if serr != nil {
		return id, fmt.Errorf("%w (page state: %v)", err, serr)
	}

	id = identity.Resolve(u, state)
	if id.Empty() {
		return id, err
	}
	return id, nil
}

func printSchema(w io.Writer) error {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	item := reflector.Reflect(&segment.Segment{})

	// ExpandedStruct only applies to a struct root, so the list wraps it.
	schema := &jsonschema.Schema{
		Version:     item.Version,
		Title:       constant.App + " segments",
		Type:        "array",
		Items:       item,
		Definitions: item.Definitions,
	}
	item.Version = ""
	item.Definitions = nil

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(schema)
}

func printSegments(w io.Writer, id identity.Identity, segments []segment.Segment) {
	header := style.New().Bold(true).Foreground(color.HiPurple).Render
	_, _ = fmt.Fprintf(w, "%s %s %s\n", icon.Get(icon.Video), header(id.String()), style.Faint(skip.Badge(segments)))

	for _, s := range segments {
		_, _ = fmt.Fprintf(w, "%s %s %s %s\n",
			style.Category(s.Category)(s.Category.Title()),
			style.Bold(skip.Span(s)),
			style.Faint(fmt.Sprintf("(%.1fs)", s.Interval.Duration())),
			style.Faint(segmentNote(s)),
		)
	}
}

func segmentNote(s segment.Segment) string {
	note := mo.EmptyableToOption(s.ActionType).OrElse("skip") + " " + s.ID
	if s.Locked {
		note += " locked"
	}
	return note
}
