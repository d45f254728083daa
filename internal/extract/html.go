package extract

import (
	"context"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/mpetrenko/docsort/internal/model"
)

// HTMLExtractor extracts the visible text of HTML documents
type HTMLExtractor struct{}

// NewHTMLExtractor creates a new HTML extractor
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

func (e *HTMLExtractor) Extract(ctx context.Context, path string) (*model.Document, error) {
	meta, err := statMeta(path)
	if err != nil {
		return nil, &model.ExtractionError{Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &model.ExtractionError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, &model.ExtractionError{Path: path, Err: err}
	}

	return &model.Document{
		Path: path,
		Text: strings.TrimSpace(extractVisibleText(doc)),
		Meta: meta,
	}, nil
}

// extractVisibleText collects text nodes, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
