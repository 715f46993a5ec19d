// Package filing turns SEC filing HTML into a map of normalized section keys
// to section text. Section boundaries are bold elements whose text starts
// with "Item".
package filing

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

const (
	// fragments at or below this many words are captions or boilerplate
	minFragmentWords = 15
	minSectionWords  = 20
	sectionKeyWords  = 4
)

var apostrophes = strings.NewReplacer(
	"â€™", "",
	"’", "",
	"'", "",
	",", "",
)

type section struct {
	heading   string
	fragments []string
}

// Parse returns the substantive sections of a filing keyed by section key.
// Markup that cannot be tokenized yields an empty map.
func Parse(markup string) map[string]string {
	result := map[string]string{}
	if strings.TrimSpace(markup) == "" {
		return result
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return result
	}

	for _, s := range collectSections(doc) {
		content := joinSubstantive(s.fragments)
		if wordCount(content) < minSectionWords {
			continue
		}

		key, ok := SectionKey(s.heading)
		if !ok {
			continue
		}
		result[key] = content
	}

	return result
}

func collectSections(doc *html.Node) []*section {
	var sections []*section
	var current *section
	byHeading := map[string]*section{}

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "span" || n.Data == "div") {
			text := nodeText(n)
			if isBold(n) {
				if isItemHeading(text) {
					// a repeated heading starts its section over
					if existing, ok := byHeading[text]; ok {
						existing.fragments = nil
						current = existing
					} else {
						current = &section{heading: text}
						byHeading[text] = current
						sections = append(sections, current)
					}
				}
			} else if current != nil && text != "" {
				current.fragments = append(current.fragments, text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	return sections
}

func joinSubstantive(fragments []string) string {
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if wordCount(f) > minFragmentWords {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, "\n")
}

// SectionKey derives the map key from an "Item N. Name" heading.
func SectionKey(heading string) (string, bool) {
	_, name, found := strings.Cut(heading, ".")
	if !found {
		return "", false
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}

	words := strings.Fields(name)
	if len(words) == 0 {
		return "", false
	}
	if len(words) > sectionKeyWords {
		words = words[:sectionKeyWords]
	}

	key := strings.Join(words, "_")
	key = apostrophes.Replace(key)
	key = strings.ToLower(key)

	if key == "business" {
		key = "business_info"
	}
	return key, true
}

func nodeText(n *html.Node) string {
	var parts []string

	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)

	return strings.Join(parts, " ")
}

func isBold(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key != "style" {
			continue
		}
		for _, decl := range strings.Split(attr.Val, ";") {
			prop, value, ok := strings.Cut(decl, ":")
			if !ok || !strings.EqualFold(strings.TrimSpace(prop), "font-weight") {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(value)) {
			case "700", "800", "900", "bold", "bolder":
				return true
			}
		}
	}
	return false
}

func isItemHeading(text string) bool {
	lower := strings.ToLower(text)
	if !strings.HasPrefix(lower, "item") {
		return false
	}
	rest := []rune(lower[len("item"):])
	return len(rest) == 0 || !unicode.IsLetter(rest[0])
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
