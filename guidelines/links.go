/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package guidelines

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// markdownLink matches inline markdown links: [label](target).
var markdownLink = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)

type link struct {
	Label  string
	Target string
}

// extractLinks returns all inline markdown links in content, in document
// order.
func extractLinks(content string) []link {
	matches := markdownLink.FindAllStringSubmatch(content, -1)
	links := make([]link, 0, len(matches))
	for _, m := range matches {
		links = append(links, link{Label: m[1], Target: m[2]})
	}
	return links
}

// resolveTarget maps a markdown link target to an absolute raw-content URL,
// or "" when the target is not fetchable:
//
//   - github.com blob URLs for the current repository are rewritten to
//     raw.githubusercontent.com form
//   - raw.githubusercontent.com URLs for the current repository pass through
//   - absolute URLs outside the current repository are discarded
//   - relative targets resolve against the repository's default branch
//
// Fragments and in-page anchors are never fetchable.
func resolveTarget(owner, repo, branch, target string) string {
	target = strings.TrimSpace(target)
	if target == "" || strings.HasPrefix(target, "#") {
		return ""
	}
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}

	u, err := url.Parse(target)
	if err != nil {
		return ""
	}

	if u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return ""
		}
		repoPrefix := "/" + owner + "/" + repo + "/"
		switch u.Host {
		case "github.com", "www.github.com":
			rest, ok := strings.CutPrefix(u.Path, repoPrefix+"blob/")
			if !ok {
				return ""
			}
			return "https://raw.githubusercontent.com/" + owner + "/" + repo + "/" + rest
		case "raw.githubusercontent.com":
			if !strings.HasPrefix(u.Path, repoPrefix) {
				return ""
			}
			return u.String()
		default:
			return ""
		}
	}

	// Relative target: resolve against the repository root on the default
	// branch. Paths that escape the repository root are discarded.
	cleaned := path.Clean(strings.TrimPrefix(target, "./"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.HasPrefix(cleaned, "/") {
		return ""
	}
	return "https://raw.githubusercontent.com/" + owner + "/" + repo + "/" + branch + "/" + cleaned
}
