package youtube

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// FetchTitle returns the video's title from oEmbed, then from the watch
// page, then PlaceholderTitle.
func (c *Client) FetchTitle(ctx context.Context, videoID string) string {
	title, err := c.oembedTitle(ctx, videoID)
	if err == nil {
		return title
	}
	c.logger.Warnf("failed to fetch video title from oembed: %v", err)

	title, err = c.pageTitle(ctx, videoID)
	if err == nil {
		return title
	}
	c.logger.Warnf("failed to fetch video title from watch page: %v", err)
	return PlaceholderTitle
}

func (c *Client) oembedTitle(ctx context.Context, videoID string) (string, error) {
	target := c.baseURL + "/oembed?url=" + url.QueryEscape(c.watchURL(videoID)) + "&format=json"
	body, err := c.get(ctx, target)
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("oembed response is not JSON")
	}
	title := strings.TrimSpace(gjson.GetBytes(body, "title").String())
	if title == "" {
		return "", fmt.Errorf("oembed response has no title")
	}
	return title, nil
}

func (c *Client) pageTitle(ctx context.Context, videoID string) (string, error) {
	body, err := c.get(ctx, c.watchURL(videoID))
	if err != nil {
		return "", err
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	if title := extractTitle(doc); title != "" {
		return title, nil
	}
	return "", fmt.Errorf("watch page has no title")
}

// extractTitle prefers og:title over the <title> element.
func extractTitle(doc *html.Node) string {
	var og, plain string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "meta":
				if og == "" && attr(n, "property") == "og:title" {
					og = strings.TrimSpace(attr(n, "content"))
				}
			case "title":
				if plain == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					plain = strings.TrimSpace(n.FirstChild.Data)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if og != "" {
		return og
	}
	plain = strings.TrimSpace(strings.TrimSuffix(plain, "- YouTube"))
	return plain
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
