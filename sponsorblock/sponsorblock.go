// Package sponsorblock provides a client for the crowd-sourced segment database,
// retrieving the skippable intervals annotated for a video.
package sponsorblock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sbskip/sbskip/constant"
	"github.com/sbskip/sbskip/identity"
	"github.com/sbskip/sbskip/log"
	"github.com/sbskip/sbskip/segment"
	"github.com/sbskip/sbskip/util"
)

const endpoint = "/api/skipSegments"

var logger = log.Component("sponsorblock")

// Options configures the lookup. It is fixed for the lifetime of a Client.
type Options struct {
	BaseURL     string
	Categories  []segment.Category
	ActionTypes []string
	// Enabled is the global switch. A disabled client never issues a request.
	Enabled bool
}

// DefaultOptions returns the stock server, every category and the skip/mute action types.
func DefaultOptions() Options {
	return Options{
		BaseURL:     constant.DefaultAPIServer,
		Categories:  segment.AllCategories(),
		ActionTypes: []string{"skip", "mute"},
		Enabled:     true,
	}
}

// Client queries the segment database.
type Client struct {
	opts Options
	http *http.Client
}

// New returns a Client. A nil httpClient falls back to http.DefaultClient.
func New(opts Options, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{opts: opts, http: httpClient}
}

// record is the wire shape of one element of the response array.
type record struct {
	Segment       []float64 `json:"segment"`
	Category      string    `json:"category"`
	UUID          string    `json:"uuid"`
	ActionType    string    `json:"actionType"`
	VideoDuration float64   `json:"videoDuration"`
	Locked        flag      `json:"locked"`
	Votes         int       `json:"votes"`
}

// flag accepts both 0/1 and false/true.
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return fmt.Errorf("invalid flag %s", data)
	}
	return nil
}

func (r record) toSegment() (segment.Segment, error) {
	if len(r.Segment) != 2 {
		return segment.Segment{}, fmt.Errorf("segment %s: expected 2 bounds, got %d", r.UUID, len(r.Segment))
	}

	interval := segment.Interval{Start: r.Segment[0], End: r.Segment[1]}
	if !interval.Valid() {
		return segment.Segment{}, fmt.Errorf("segment %s: end %.3f not after start %.3f", r.UUID, interval.End, interval.Start)
	}

	return segment.Segment{
		ID:            r.UUID,
		Category:      segment.Category(r.Category),
		Interval:      interval,
		ActionType:    r.ActionType,
		VideoDuration: r.VideoDuration,
		Locked:        bool(r.Locked),
		Votes:         r.Votes,
	}, nil
}

// RequestURL builds the lookup URL for id. aid and bvid are included only when known.
func (c *Client) RequestURL(id identity.Identity) string {
	params := url.Values{}
	params.Set("categories", string(lo.Must(json.Marshal(c.opts.Categories))))
	params.Set("actionTypes", string(lo.Must(json.Marshal(c.opts.ActionTypes))))

	if aid, ok := id.NumericID.Get(); ok {
		params.Set("aid", aid)
	}
	if bvid, ok := id.ShortCode.Get(); ok {
		params.Set("bvid", bvid)
	}

	return c.opts.BaseURL + endpoint + "?" + params.Encode()
}

// ErrDisabled is returned by Lookup when the client is switched off.
var ErrDisabled = errors.New("segment lookup disabled")

// Fetch retrieves the segments for id with a single request.
//
// Every failure (disabled client, empty identity, transport error, non-2xx,
// body that is not a JSON array) yields None; the caller treats it as
// "no segments". A 2xx empty array yields Some of an empty slice.
func (c *Client) Fetch(ctx context.Context, id identity.Identity) mo.Option[[]segment.Segment] {
	segments, err := c.Lookup(ctx, id)
	switch {
	case errors.Is(err, ErrDisabled):
		return mo.None[[]segment.Segment]()
	case errors.Is(err, identity.ErrUnresolvable):
		logger.Debugf("no video id, skipping lookup")
		return mo.None[[]segment.Segment]()
	case err != nil:
		logger.Warnf("segment lookup for %s failed: %v", id, err)
		return mo.None[[]segment.Segment]()
	}

	logger.Infof("found %s for %s", util.Quantify(len(segments), "segment", "segments"), id)
	return mo.Some(segments)
}

// Lookup is Fetch with the failure reason kept.
func (c *Client) Lookup(ctx context.Context, id identity.Identity) ([]segment.Segment, error) {
	if !c.opts.Enabled {
		return nil, ErrDisabled
	}

	if id.Empty() {
		return nil, identity.ErrUnresolvable
	}

	return c.fetch(ctx, id)
}

func (c *Client) fetch(ctx context.Context, id identity.Identity) ([]segment.Segment, error) {
	target := c.RequestURL(id)
	logger.Debugf("requesting %s", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return decode(body)
}

// decode requires a JSON array. Individual malformed elements are dropped.
func decode(body []byte) ([]segment.Segment, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("parse response: not an array")
	}

	segments := make([]segment.Segment, 0, len(raw))
	for _, msg := range raw {
		var r record
		if err := json.Unmarshal(msg, &r); err != nil {
			logger.Debugf("dropping malformed record: %v", err)
			continue
		}

		s, err := r.toSegment()
		if err != nil {
			logger.Debugf("dropping record: %v", err)
			continue
		}
		segments = append(segments, s)
	}

	return segments, nil
}
