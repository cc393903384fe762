package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	ContainerWidth = 595
	minFontSizePx  = 10
)

var removedTags = map[atom.Atom]bool{
	atom.Button:   true,
	atom.Input:    true,
	atom.Select:   true,
	atom.Textarea: true,
	atom.Svg:      true,
	atom.Canvas:   true,
	atom.Iframe:   true,
	atom.Embed:    true,
	atom.Object:   true,
	atom.Video:    true,
	atom.Audio:    true,
	atom.Script:   true,
	atom.Noscript: true,
}

var removedClassFragments = []string{"MuiButton", "export-button", "am5", "amcharts"}

// printColors maps dark theme text colors to print safe ones. Keys carry no spaces.
var printColors = map[string]string{
	"rgb(156,163,175)": "#374151",
	"#9ca3af":          "#374151",
	"rgb(209,213,219)": "#4b5563",
	"#d1d5db":          "#4b5563",
	"rgb(255,255,255)": "#000000",
	"#ffffff":          "#000000",
	"#fff":             "#000000",
	"white":            "#000000",
}

var headingTags = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// ExportSnapshot is a detached, print ready copy of one report section.
// It is owned by a single export and must be released when that export ends.
type ExportSnapshot struct {
	mu       sync.Mutex
	target   string
	root     *html.Node
	released bool
}

// NewSnapshot clones the element with id targetID out of page, strips what
// cannot be printed, recolors it for white paper and puts the letterhead on top.
func NewSnapshot(page *html.Node, targetID string, letterhead Letterhead) (*ExportSnapshot, error) {
	if page == nil {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, targetID)
	}
	target := FindByID(page, targetID)
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, targetID)
	}

	clone := cloneTree(target)
	clone.Parent, clone.PrevSibling, clone.NextSibling = nil, nil, nil
	strip(clone)
	applyPrintStyles(clone)

	wrapper := element(atom.Div, `width: 100%; background-color: #ffffff; font-family: "Roboto", "Helvetica", "Arial", sans-serif`)
	wrapper.AppendChild(letterhead.node())
	wrapper.AppendChild(clone)

	container := element(atom.Div, fmt.Sprintf("width: %dpx; height: auto; background: #ffffff; padding: 5px; "+
		"font-family: inherit; color: #000000; box-sizing: border-box", ContainerWidth))
	setAttr(container, "class", "export-container")
	container.AppendChild(wrapper)

	return &ExportSnapshot{target: targetID, root: container}, nil
}

func (s *ExportSnapshot) Target() string {
	return s.target
}

func (s *ExportSnapshot) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// HTML renders the snapshot as a standalone document.
func (s *ExportSnapshot) HTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return "", ErrSnapshotReleased
	}

	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"></head><body style="margin: 0; background: #ffffff">`)
	if err := html.Render(&buf, s.root); err != nil {
		return "", fmt.Errorf("failed to render snapshot: %w", err)
	}
	buf.WriteString(`</body></html>`)
	return buf.String(), nil
}

// Release detaches the snapshot and drops its tree. Safe to call more than once.
func (s *ExportSnapshot) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	if s.root != nil && s.root.Parent != nil {
		s.root.Parent.RemoveChild(s.root)
	}
	s.root = nil
	s.released = true
}

// FindByID returns the first element with the given id, depth first.
func FindByID(n *html.Node, id string) *html.Node {
	if n == nil || id == "" {
		return nil
	}
	if n.Type == html.ElementNode && getAttr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func cloneTree(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneTree(child))
	}
	return c
}

func strip(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && unprintable(c):
			n.RemoveChild(c)
		default:
			strip(c)
		}
		c = next
	}
}

func unprintable(n *html.Node) bool {
	if removedTags[n.DataAtom] || n.Namespace == "svg" {
		return true
	}
	if strings.EqualFold(getAttr(n, "role"), "button") {
		return true
	}
	if strings.Contains(getAttr(n, "data-testid"), "button") {
		return true
	}
	class := getAttr(n, "class")
	for _, fragment := range removedClassFragments {
		if strings.Contains(class, fragment) {
			return true
		}
	}
	return false
}

func applyPrintStyles(root *html.Node) {
	walkElements(root, func(n *html.Node) {
		if n == root {
			return
		}
		st := parseStyle(getAttr(n, "style"))
		st.set("color", printColor(st.get("color")))
		st.set("background-color", "transparent")
		st.del("background")
		st.set("border-color", "transparent")
		st.set("fill", "#000000")
		st.set("stroke", "#000000")
		if px, ok := pixels(st.get("font-size")); ok && px < minFontSizePx {
			st.set("font-size", fmt.Sprintf("%dpx", minFontSizePx))
		}
		styleSpecific(n, st)
		setAttr(n, "style", st.String())
	})

	st := parseStyle(getAttr(root, "style"))
	st.del("background")
	for _, kv := range [][2]string{
		{"background-color", "#ffffff"},
		{"color", "#000000"},
		{"padding", "10px"},
		{"border-radius", "0px"},
		{"width", "100%"},
		{"min-height", "100%"},
		{"font-size", "12px"},
		{"line-height", "1.4"},
		{"font-family", `"Roboto", "Helvetica", "Arial", sans-serif`},
		{"border", "none"},
		{"box-shadow", "none"},
		{"margin", "0"},
		{"box-sizing", "border-box"},
	} {
		st.set(kv[0], kv[1])
	}
	setAttr(root, "style", st.String())
}

func styleSpecific(n *html.Node, st *style) {
	class := getAttr(n, "class")
	switch {
	case n.DataAtom == atom.Hr || strings.Contains(class, "MuiDivider-root"):
		st.set("border-color", "#e5e7eb")
		st.set("background-color", "#e5e7eb")
		st.set("height", "1px")
		st.set("margin", "6px 0")
	case headingTags[n.DataAtom] || strings.Contains(class, "MuiTypography-h4") ||
		strings.Contains(class, "MuiTypography-h5") || strings.Contains(class, "MuiTypography-h6"):
		st.set("color", "#111827")
		st.set("font-weight", "600")
		st.set("margin-bottom", "6px")
		st.set("font-size", "14px")
	case strings.Contains(class, "MuiTypography-body2") || strings.Contains(class, "MuiTypography-caption"):
		if st.get("font-style") == "italic" || strings.Contains(textContent(n), "Text:") {
			st.set("color", "#6b7280")
			st.set("font-size", "10px")
		} else {
			st.set("color", "#374151")
			st.set("font-size", "11px")
		}
	}
}

func printColor(current string) string {
	key := strings.ToLower(strings.ReplaceAll(current, " ", ""))
	key = strings.TrimSuffix(key, "!important")
	if mapped, ok := printColors[key]; ok {
		return mapped
	}
	return "#000000"
}

func pixels(v string) (float64, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "!important"))
	if !strings.HasSuffix(v, "px") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, "px")), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func walkElements(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// style is an ordered inline style declaration list.
type style struct {
	props  []string
	values map[string]string
}

func parseStyle(s string) *style {
	st := &style{values: make(map[string]string)}
	for _, decl := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		st.set(prop, strings.TrimSpace(val))
	}
	return st
}

func (s *style) get(prop string) string {
	return s.values[prop]
}

func (s *style) set(prop, val string) {
	if _, ok := s.values[prop]; !ok {
		s.props = append(s.props, prop)
	}
	s.values[prop] = val
}

func (s *style) del(prop string) {
	if _, ok := s.values[prop]; !ok {
		return
	}
	delete(s.values, prop)
	for i, p := range s.props {
		if p == prop {
			s.props = append(s.props[:i], s.props[i+1:]...)
			break
		}
	}
}

func (s *style) String() string {
	parts := make([]string, 0, len(s.props))
	for _, p := range s.props {
		parts = append(parts, p+": "+s.values[p])
	}
	return strings.Join(parts, "; ")
}
