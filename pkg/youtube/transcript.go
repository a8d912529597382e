package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/entrhq/engage/pkg/types"
)

// DefaultLanguages is the caption preference order.
var DefaultLanguages = []string{"hi", "en"}

var (
	errNoCaptions   = errors.New("video has no caption tracks")
	errNoTrackMatch = errors.New("no caption track in the requested languages")
)

// captionTrack is one entry of the watch page's captionTracks list.
type captionTrack struct {
	BaseURL      string
	LanguageCode string
	Generated    bool
}

// FetchTranscript returns the caption units for videoID in the first
// available language of languages, manual tracks before generated ones.
// Any failure is logged and yields an empty transcript.
func (c *Client) FetchTranscript(ctx context.Context, videoID string, languages []string) []types.TranscriptUnit {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	units, err := c.fetchTranscript(ctx, videoID, languages)
	if err != nil {
		c.logger.Warnf("unable to fetch transcript: %v", err)
		return nil
	}
	c.logger.Infof("fetched %d transcript lines", len(units))
	return units
}

func (c *Client) fetchTranscript(ctx context.Context, videoID string, languages []string) ([]types.TranscriptUnit, error) {
	page, err := c.get(ctx, c.watchURL(videoID))
	if err != nil {
		return nil, err
	}
	tracks, err := parseCaptionTracks(page)
	if err != nil {
		return nil, err
	}
	track, err := chooseTrack(tracks, languages)
	if err != nil {
		return nil, err
	}
	c.logger.Debugf("using %s caption track (generated=%t)", track.LanguageCode, track.Generated)

	target := track.BaseURL
	if strings.HasPrefix(target, "/") {
		target = c.baseURL + target
	}
	body, err := c.get(ctx, target+"&fmt=json3")
	if err != nil {
		return nil, fmt.Errorf("caption download: %w", err)
	}
	return parseJSON3(body)
}

// parseCaptionTracks finds the captionTracks array embedded in the watch page.
func parseCaptionTracks(page []byte) ([]captionTrack, error) {
	const marker = `"captionTracks":`
	idx := bytes.Index(page, []byte(marker))
	if idx < 0 {
		return nil, errNoCaptions
	}
	raw, ok := matchBrackets(page[idx+len(marker):])
	if !ok {
		return nil, fmt.Errorf("malformed captionTracks in watch page")
	}

	var tracks []captionTrack
	gjson.ParseBytes(raw).ForEach(func(_, t gjson.Result) bool {
		base := t.Get("baseUrl").String()
		if base == "" {
			return true
		}
		tracks = append(tracks, captionTrack{
			BaseURL:      base,
			LanguageCode: t.Get("languageCode").String(),
			Generated:    t.Get("kind").String() == "asr",
		})
		return true
	})
	if len(tracks) == 0 {
		return nil, errNoCaptions
	}
	return tracks, nil
}

// matchBrackets returns the JSON array starting at the first '[' of b,
// skipping brackets inside string literals.
func matchBrackets(b []byte) ([]byte, bool) {
	start := bytes.IndexByte(b, '[')
	if start < 0 {
		return nil, false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(b); i++ {
		ch := b[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return b[start : i+1], true
			}
		}
	}
	return nil, false
}

// chooseTrack walks languages in order; for each it takes a manual track,
// then a generated one. "en" also matches regional codes like "en-GB".
func chooseTrack(tracks []captionTrack, languages []string) (captionTrack, error) {
	for _, lang := range languages {
		for _, generated := range []bool{false, true} {
			for _, t := range tracks {
				if t.Generated == generated && languageMatches(t.LanguageCode, lang) {
					return t, nil
				}
			}
		}
	}
	return captionTrack{}, fmt.Errorf("%w %v", errNoTrackMatch, languages)
}

func languageMatches(code, lang string) bool {
	code, lang = strings.ToLower(code), strings.ToLower(lang)
	return code == lang || strings.HasPrefix(code, lang+"-")
}

// parseJSON3 converts a json3 caption document into transcript units,
// dropping events that carry no text.
func parseJSON3(body []byte) ([]types.TranscriptUnit, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("caption document is not JSON")
	}
	events := gjson.GetBytes(body, "events")
	if !events.IsArray() {
		return nil, fmt.Errorf("caption document has no events")
	}

	var units []types.TranscriptUnit
	events.ForEach(func(_, ev gjson.Result) bool {
		segs := ev.Get("segs")
		if !segs.Exists() {
			return true
		}
		var sb strings.Builder
		segs.ForEach(func(_, seg gjson.Result) bool {
			sb.WriteString(seg.Get("utf8").String())
			return true
		})
		unit := types.TranscriptUnit{
			Text:  strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " ")),
			Start: ev.Get("tStartMs").Float() / 1000,
		}
		if !unit.IsBlank() {
			units = append(units, unit)
		}
		return true
	})
	return units, nil
}
