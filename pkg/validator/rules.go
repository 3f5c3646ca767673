package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/foliokit/folioctl/pkg/model"
)

var inlineEventAttrPattern = regexp.MustCompile(`(?i)^on\w+$`)

func validateParsedFragment(section model.Section, allowlist map[string]struct{}, expectedAnchorID string) []ValidationError {
	name := section.Metadata.Name
	rootNodes, parseErr := parseFragment(section.Spec.HTML)
	if parseErr != nil {
		return []ValidationError{newError(name, "parse-fragment", fmt.Sprintf("parse HTML fragment failed: %v", parseErr))}
	}

	roots, hasRootText := rootElements(rootNodes)
	var errs []ValidationError

	if hasRootText {
		errs = append(errs, newError(name, "single-root", "text is not allowed at root level; wrap it in the section's root element"))
	}

	if len(roots) == 0 {
		errs = append(errs, newError(name, "single-root", "section must contain exactly one root element"))
		return errs
	}
	if len(roots) > 1 {
		tags := make([]string, 0, len(roots))
		for _, n := range roots {
			tags = append(tags, n.Data)
		}
		errs = append(errs, newError(name, "single-root", fmt.Sprintf("section has multiple root elements (%s); keep exactly one", strings.Join(tags, ", "))))
		return errs
	}

	root := roots[0]
	if _, ok := allowlist[root.Data]; !ok {
		tags := make([]string, 0, len(allowlist))
		for tag := range allowlist {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		errs = append(errs, newError(name, "root-tag-allowlist", fmt.Sprintf("root tag <%s> is not allowed; use one of: %s", root.Data, strings.Join(tags, ", "))))
	}

	// Section markup is injected unescaped into the shell template, so the
	// loader is the last line of defense against script execution vectors.
	errs = append(errs, collectUnsafeHTMLViolations(name, root)...)

	id, hasID := getAttribute(root, "id")
	if !hasID {
		errs = append(errs, newError(name, "anchor-id", fmt.Sprintf("root element must carry id=%q for anchor navigation", expectedAnchorID)))
	} else if id != expectedAnchorID {
		errs = append(errs, newError(name, "anchor-id", fmt.Sprintf("root id mismatch: expected %q, got %q", expectedAnchorID, id)))
	}

	return errs
}

func parseFragment(fragment string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	return html.ParseFragment(strings.NewReader(fragment), ctx)
}

func rootElements(nodes []*html.Node) ([]*html.Node, bool) {
	roots := make([]*html.Node, 0)
	hasRootText := false
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			roots = append(roots, n)
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				hasRootText = true
			}
		}
	}
	return roots, hasRootText
}

func collectUnsafeHTMLViolations(sectionName string, root *html.Node) []ValidationError {
	var errs []ValidationError

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node == nil {
			return
		}
		if node.Type == html.ElementNode {
			if node.DataAtom == atom.Script {
				errs = append(errs, newError(sectionName, "script-disallow", "<script> tags are not allowed in sections; the shell injects the router script itself"))
			}
			for _, attr := range node.Attr {
				if inlineEventAttrPattern.MatchString(attr.Key) {
					errs = append(errs, newError(sectionName, "event-handler-disallow", fmt.Sprintf("inline event handler attribute %q is not allowed", attr.Key)))
				}
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	walk(root)
	return errs
}

func getAttribute(node *html.Node, key string) (string, bool) {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

func newError(section, rule, message string) ValidationError {
	return ValidationError{
		Section:  section,
		Rule:     rule,
		Severity: SeverityError,
		Message:  message,
	}
}
