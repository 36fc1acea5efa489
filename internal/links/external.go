package links

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// httpClient is overridable in tests.
var httpClient = &http.Client{Timeout: 10 * time.Second}

// checkExternal fetches an http(s) url and returns a reason when it is
// unreachable. When the url carries a fragment and the response is html,
// the fragment is verified against the page's id/name attributes.
// Results are cached per url on the Checker, corpora tend to repeat
// links to the same pages.
func (c *Checker) checkExternal(ctx context.Context, dest string) string {
	if reason, ok := c.externalSeen[dest]; ok {
		return reason
	}
	reason := fetchAndVerify(ctx, dest)
	c.externalSeen[dest] = reason
	return reason
}

func fetchAndVerify(ctx context.Context, dest string) string {
	url, fragment := dest, ""
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		url, fragment = dest[:i], dest[i+1:]
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Sprintf("invalid url: %v", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Sprintf("status %v", resp.StatusCode)
	}
	if fragment == "" {
		return ""
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "html") {
		return ""
	}
	found, err := pageHasFragment(resp.Body, fragment)
	if err != nil {
		return fmt.Sprintf("failed to parse page: %v", err)
	}
	if !found {
		return fmt.Sprintf("page has no element with id '%v'", fragment)
	}
	return ""
}

// pageHasFragment tokenizes html looking for an element whose id or name
// attribute matches fragment.
func pageHasFragment(body io.Reader, fragment string) (bool, error) {
	tokenizer := html.NewTokenizer(body)
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				return false, nil
			}
			return false, tokenizer.Err()
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		if _, hasAttr := tokenizer.TagName(); !hasAttr {
			continue
		}
		for {
			key, val, more := tokenizer.TagAttr()
			if (string(key) == "id" || string(key) == "name") && string(val) == fragment {
				return true, nil
			}
			if !more {
				break
			}
		}
	}
}
