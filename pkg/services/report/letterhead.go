package report

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Letterhead is the header block placed above every exported section.
type Letterhead struct {
	Name         string
	AddressLines []string
	LogoURL      string
	LogoAlt      string
}

func DefaultLetterhead() Letterhead {
	return Letterhead{
		Name:         "SHILAT LLC",
		AddressLines: []string{"21 GRASSMERE ST", "LKWD, NJ 08701"},
		LogoURL:      "/shilat_logo.png",
		LogoAlt:      "Shilat LLC Logo",
	}
}

const letterheadClass = "export-letterhead"

func (l Letterhead) node() *html.Node {
	header := element(atom.Div, "width: 100%; height: 120px; display: flex; justify-content: space-between; "+
		"align-items: center; padding: 20px; background-color: #ffffff; border-bottom: 2px solid #e5e7eb; "+
		"margin-bottom: 20px; box-sizing: border-box")
	setAttr(header, "class", letterheadClass)

	logo := element(atom.Div, "width: 150px; height: 100px; display: flex; align-items: center; justify-content: center")
	if l.LogoURL != "" {
		img := element(atom.Img, "max-width: 100%; max-height: 100%; object-fit: contain; filter: brightness(0)")
		setAttr(img, "src", l.LogoURL)
		setAttr(img, "alt", l.LogoAlt)
		logo.AppendChild(img)
	} else {
		setAttr(logo, "style", getAttr(logo, "style")+"; border: 2px solid #374151; background-color: #f8fafc; "+
			"color: #374151; font-size: 14px; font-weight: 600; border-radius: 4px")
		logo.AppendChild(text(l.Name))
	}
	header.AppendChild(logo)

	info := element(atom.Div, "text-align: right; color: #111827; font-size: 18px; font-weight: 600; line-height: 1.2")
	name := element(atom.Div, "font-size: 20px; font-weight: 700; margin-bottom: 4px")
	name.AppendChild(text(l.Name))
	info.AppendChild(name)
	for _, line := range l.AddressLines {
		row := element(atom.Div, "font-size: 11px; font-weight: 400; color: #6b7280; margin-bottom: 1px")
		row.AppendChild(text(line))
		info.AppendChild(row)
	}
	header.AppendChild(info)
	return header
}

func element(a atom.Atom, style string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if style != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: style})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
