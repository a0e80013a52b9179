package convert

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed before conversion; they never carry sheet data
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer",
	"img", "picture", "svg", "canvas",
	"iframe", "video", "audio",
	"form", "button", "input", "select", "textarea",
}

// HTMLConverter renders HTML spec sheets (e.g. "save as web page" exports)
// to markdown with pipe tables
type HTMLConverter struct {
	maxFileSize int64
	md          *converter.Converter
}

// NewHTMLConverter creates an HTML converter with the table plugin enabled
func NewHTMLConverter(maxFileSize int64) *HTMLConverter {
	return &HTMLConverter{
		maxFileSize: maxFileSize,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Name returns the backend name
func (c *HTMLConverter) Name() string { return BackendHTML }

// Convert reads the file and converts its cleaned body to markdown
func (c *HTMLConverter) Convert(ctx context.Context, path string) (string, error) {
	fail := func(err error) (string, error) {
		return "", &ConversionError{Backend: BackendHTML, Path: path, Err: err}
	}

	if _, err := checkFile(path, c.maxFileSize); err != nil {
		return fail(err)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("failed to read file: %w", err))
	}

	markdown, err := c.ConvertString(string(data))
	if err != nil {
		return fail(err)
	}
	return markdown, nil
}

// ConvertString strips noise elements and converts the main content
func (c *HTMLConverter) ConvertString(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var content *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		if sel := doc.Find(tag); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		return "", fmt.Errorf("no content container found in HTML")
	}

	fragment, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}

	markdown, err := c.md.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting to markdown: %w", err)
	}

	if strings.TrimSpace(markdown) == "" {
		return "", ErrNoText
	}
	return strings.TrimSpace(markdown) + "\n", nil
}
