package sectionupdate

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// fragmentPolicy allows the markup the resume editor produces, including highlight marks
// and inline alignment styles, and strips anything executable. Links are left as written.
func fragmentPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(false)
		p.RequireNoFollowOnFullyQualifiedLinks(false)
		p.AllowElements("mark", "span", "u", "s")
		p.AllowAttrs("style", "class", "data-color").Globally()
		p.AllowStyles("text-align").MatchingEnum("left", "center", "right", "justify").Globally()
		p.AllowStyles("background-color", "color").Globally()
		p.AllowStyles("font-weight", "font-style", "text-decoration").Globally()
		policy = p
	})
	return policy
}

// sanitize returns fragment untouched unless the policy removed something from it.
// The sanitizer re-escapes quotes and entities, and the stored document has to keep
// the bytes the editor will send back on the next edit.
func sanitize(fragment string) string {
	if fragment == "" {
		return ""
	}
	clean := fragmentPolicy().Sanitize(fragment)
	if clean == fragment || sameMarkup(fragment, clean) {
		return fragment
	}
	return clean
}

// sameMarkup reports whether a and b parse to the same nodes as body content.
func sameMarkup(a, b string) bool {
	x, err := parseFragment(a)
	if err != nil {
		return false
	}
	y, err := parseFragment(b)
	if err != nil {
		return false
	}
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !sameNode(x[i], y[i]) {
			return false
		}
	}
	return true
}

func parseFragment(s string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(s), body)
}

func sameNode(a, b *html.Node) bool {
	if a.Type != b.Type || a.Data != b.Data || !sameAttrs(a.Attr, b.Attr) {
		return false
	}
	ca, cb := a.FirstChild, b.FirstChild
	for ca != nil && cb != nil {
		if !sameNode(ca, cb) {
			return false
		}
		ca, cb = ca.NextSibling, cb.NextSibling
	}
	return ca == nil && cb == nil
}

// sameAttrs ignores attribute order.
func sameAttrs(a, b []html.Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	vals := make(map[string]string, len(a))
	for _, attr := range a {
		vals[attr.Namespace+":"+attr.Key] = attr.Val
	}
	for _, attr := range b {
		val, ok := vals[attr.Namespace+":"+attr.Key]
		if !ok || val != attr.Val {
			return false
		}
	}
	return true
}
