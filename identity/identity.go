// Package identity resolves the ids used to look up a video's segments.
//
// A video is known by a numeric id (aid) and/or a short code (bvid). Both are
// derived from the URL first and fall back to the state the page embeds.
package identity

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/mo"
	"github.com/sbskip/sbskip/util"
)

// ErrUnresolvable is returned by Parse when the input carries no usable id.
var ErrUnresolvable = errors.New("no video id found")

var (
	pathPattern  = regexp.MustCompile(`/video/(?:av(?P<aid>\d+)|(?P<bvid>BV[0-9A-Za-z]+))`)
	shortPattern = regexp.MustCompile(`^BV[0-9A-Za-z]+$`)
	aidPattern   = regexp.MustCompile(`^(?i:av)?(\d+)$`)
)

// Identity is the pair of ids for a single video. It is immutable once built.
type Identity struct {
	NumericID mo.Option[string] `json:"aid"`
	ShortCode mo.Option[string] `json:"bvid"`
}

// New builds an Identity from possibly empty strings.
func New(aid, bvid string) Identity {
	return Identity{
		NumericID: present(aid),
		ShortCode: present(bvid),
	}
}

// Empty reports whether neither id is known.
func (i Identity) Empty() bool {
	return i.NumericID.IsAbsent() && i.ShortCode.IsAbsent()
}

func (i Identity) String() string {
	var parts []string
	if aid, ok := i.NumericID.Get(); ok {
		parts = append(parts, "av"+aid)
	}
	if bvid, ok := i.ShortCode.Get(); ok {
		parts = append(parts, bvid)
	}
	if len(parts) == 0 {
		return "<unknown>"
	}
	return strings.Join(parts, "/")
}

// FromURL extracts ids from the aid query parameter and the /video/ path segment.
func FromURL(u *url.URL) Identity {
	if u == nil {
		return Identity{}
	}

	groups := util.ReGroups(pathPattern, u.Path)

	aid := u.Query().Get("aid")
	if aid == "" {
		aid = groups["aid"]
	}

	return New(aid, groups["bvid"])
}

// Resolve combines the URL with the page-embedded state. Each URL-derived
// field wins over its page-state counterpart.
func Resolve(u *url.URL, state mo.Option[PageState]) Identity {
	id := FromURL(u)

	fallback, ok := state.Get()
	if !ok {
		return id
	}

	return Identity{
		NumericID: either(id.NumericID, present(string(fallback.AID))),
		ShortCode: either(id.ShortCode, present(fallback.BVID)),
	}
}

// Parse accepts a video URL, a bare BV code, or an av/numeric id.
func Parse(arg string) (Identity, error) {
	arg = strings.TrimSpace(arg)

	switch {
	case shortPattern.MatchString(arg):
		return New("", arg), nil
	case aidPattern.MatchString(arg):
		return New(aidPattern.FindStringSubmatch(arg)[1], ""), nil
	}

	u, err := url.Parse(arg)
	if err != nil {
		return Identity{}, fmt.Errorf("parse %q: %w", arg, err)
	}

	id := FromURL(u)
	if id.Empty() {
		return Identity{}, fmt.Errorf("%q: %w", arg, ErrUnresolvable)
	}
	return id, nil
}

func present(s string) mo.Option[string] {
	s = strings.TrimSpace(s)
	if s == "" {
		return mo.None[string]()
	}
	return mo.Some(s)
}

func either(preferred, fallback mo.Option[string]) mo.Option[string] {
	if preferred.IsPresent() {
		return preferred
	}
	return fallback
}
