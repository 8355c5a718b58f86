package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/mo"
	"github.com/sbskip/sbskip/constant"
	"github.com/sbskip/sbskip/util"
)

const stateMarker = "window.__INITIAL_STATE__"

// PageState is the identity fallback embedded by the video page in
// window.__INITIAL_STATE__.videoData.
type PageState struct {
	AID  FlexString `json:"aid"`
	BVID string     `json:"bvid"`
}

// FlexString decodes a JSON string or number into its textual form.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// ParseVideoData decodes a serialized videoData object. A JSON null yields None.
func ParseVideoData(data []byte) (mo.Option[PageState], error) {
	var state *PageState
	if err := json.Unmarshal(data, &state); err != nil {
		return mo.None[PageState](), fmt.Errorf("decode video data: %w", err)
	}
	if state == nil || (state.AID == "" && state.BVID == "") {
		return mo.None[PageState](), nil
	}
	return mo.Some(*state), nil
}

// ExtractPageState scans the document's inline scripts for the
// window.__INITIAL_STATE__ assignment and decodes its videoData.
func ExtractPageState(r io.Reader) (mo.Option[PageState], error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return mo.None[PageState](), fmt.Errorf("parse page: %w", err)
	}

	var script string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, stateMarker) {
			script = text
			return false
		}
		return true
	})

	if script == "" {
		return mo.None[PageState](), nil
	}

	return decodeAssignment(script)
}

// decodeAssignment reads the first JSON value following "window.__INITIAL_STATE__=".
// The page appends an IIFE after the literal, so the decoder must stop after one value.
func decodeAssignment(script string) (mo.Option[PageState], error) {
	idx := strings.Index(script, stateMarker)
	rest := strings.TrimSpace(script[idx+len(stateMarker):])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "="))

	var state struct {
		VideoData json.RawMessage `json:"videoData"`
	}
	if err := json.NewDecoder(strings.NewReader(rest)).Decode(&state); err != nil {
		return mo.None[PageState](), fmt.Errorf("decode initial state: %w", err)
	}

	if len(state.VideoData) == 0 {
		return mo.None[PageState](), nil
	}
	return ParseVideoData(state.VideoData)
}

// FetchPageState downloads the page at u and extracts its embedded state.
func FetchPageState(ctx context.Context, client *http.Client, u *url.URL) (mo.Option[PageState], error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return mo.None[PageState](), fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Referer", u.Scheme+"://"+u.Host+"/")

	resp, err := client.Do(req)
	if err != nil {
		return mo.None[PageState](), fmt.Errorf("fetch page: %w", err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mo.None[PageState](), fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	return ExtractPageState(resp.Body)
}
