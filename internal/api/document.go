package api

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// fallbackDurationMinutes is used when the page carries neither a duration
// control nor block minutes.
const fallbackDurationMinutes = 30

// ParseDocument extracts the session document from a session page.
//
// The page shape it reads:
//
//	<body data-sid="...">
//	  <form class="duration-form"><input type="range" value="45"></form>
//	  <aside class="pins"><p class="pin">pinned note</p></aside>
//	  <section class="block covered" id="b1" data-minutes="8">
//	    <h2>Title</h2><ul><li>note</li></ul>
//	  </section>
//
// Sections without an id are skipped; blocks keep document order.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse session page: %w", err)
	}

	doc := &Document{}
	duration := 0

	var walk func(n *html.Node, inDurationForm bool)
	walk = func(n *html.Node, inDurationForm bool) {
		if n.Type == html.ElementNode {
			switch {
			case n.DataAtom == atom.Body:
				doc.SessionID = attr(n, "data-sid")
			case n.DataAtom == atom.Title:
				if doc.Name == "" {
					doc.Name = textOf(n)
				}
			case n.DataAtom == atom.Section && hasClass(n, "block"):
				if b, ok := parseBlock(n); ok {
					doc.Blocks = append(doc.Blocks, b)
				}
				return
			case hasClass(n, "pin"):
				if t := textOf(n); t != "" {
					doc.Pins = append(doc.Pins, t)
				}
				return
			case n.DataAtom == atom.Input && inDurationForm && attr(n, "type") == "range":
				if v, err := strconv.Atoi(attr(n, "value")); err == nil && v > 0 {
					duration = v
				}
			}
			if hasClass(n, "duration-form") {
				inDurationForm = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inDurationForm)
		}
	}
	walk(root, false)

	if duration == 0 {
		for _, b := range doc.Blocks {
			duration += b.Minutes
		}
	}
	if duration == 0 {
		duration = fallbackDurationMinutes
	}
	doc.DurationMinutes = duration
	return doc, nil
}

func parseBlock(n *html.Node) (Block, bool) {
	id := strings.TrimSpace(attr(n, "id"))
	if id == "" {
		return Block{}, false
	}

	b := Block{
		ID:      id,
		Covered: hasClass(n, "covered") || attr(n, "data-covered") == "true",
	}
	if m, err := strconv.Atoi(attr(n, "data-minutes")); err == nil {
		b.Minutes = m
	}

	var walk func(c *html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode {
			switch c.DataAtom {
			case atom.H1, atom.H2, atom.H3, atom.H4:
				if b.Title == "" {
					b.Title = textOf(c)
				}
				return
			case atom.Li:
				if t := textOf(c); t != "" {
					b.Notes = append(b.Notes, t)
				}
				return
			}
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)

	if b.Title == "" {
		b.Title = id
	}
	return b, true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// textOf returns the whitespace-collapsed text content of n.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(c *html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
