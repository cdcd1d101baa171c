package intake

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/cat-mip/cat-mip/registry"
)

var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

// HTMLImport is the result of importing a glossary page.
type HTMLImport struct {
	// Title is the page title, used as the proposed term name.
	Title string

	// Definition is the extracted summary used as the draft definition.
	Definition string

	// Markdown is the full converted article, kept so reviewers can
	// mine synonyms and relationships from the source prose.
	Markdown string
}

// HTMLImporter converts glossary pages into draft term scaffolds.
type HTMLImporter struct {
	converter *md.Converter
}

// NewHTMLImporter creates a new importer.
func NewHTMLImporter() *HTMLImporter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &HTMLImporter{converter: converter}
}

// Import extracts the readable article from an HTML page and converts
// it to markdown. pageURL may be empty for local files.
func (i *HTMLImporter) Import(content []byte, pageURL string) (*HTMLImport, error) {
	var base *url.URL
	if pageURL != "" {
		var err error
		base, err = url.Parse(pageURL)
		if err != nil {
			return nil, fmt.Errorf("parse page URL: %w", err)
		}
	}

	title := ""
	definition := ""
	body := string(content)

	article, err := readability.FromReader(bytes.NewReader(content), base)
	if err == nil {
		title = strings.TrimSpace(article.Title)
		definition = strings.TrimSpace(article.Excerpt)
		if article.Content != "" {
			body = article.Content
		}
	}
	if title == "" {
		title = extractHTMLTitle(content)
	}

	markdown, err := i.converter.ConvertString(body)
	if err != nil {
		return nil, fmt.Errorf("convert to markdown: %w", err)
	}
	markdown = cleanMarkdown(markdown)

	if title == "" {
		title = extractMarkdownTitle(markdown)
	}
	if definition == "" {
		definition = firstParagraph(markdown)
	}

	return &HTMLImport{
		Title:      title,
		Definition: definition,
		Markdown:   markdown,
	}, nil
}

// Term scaffolds a draft term record from the import.
func (h *HTMLImport) Term(author, github, sourceURL string) (*registry.Term, error) {
	if h.Title == "" {
		return nil, fmt.Errorf("page has no extractable title")
	}
	term := registry.NewDraft(h.Title, author, github)
	term.Definition = h.Definition
	term.Discussion = sourceURL
	term.Clean()
	return term, nil
}

// extractHTMLTitle extracts the <title> text from HTML.
func extractHTMLTitle(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return ""
	}

	var title string
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if title != "" {
				return
			}
			extract(c)
		}
	}
	extract(doc)

	return title
}

// cleanMarkdown removes excessive blank lines and trailing whitespace.
func cleanMarkdown(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractMarkdownTitle returns the first H1 heading.
func extractMarkdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// firstParagraph returns the first prose paragraph: a run of lines
// that are not headings, list items, or code fences.
func firstParagraph(content string) string {
	var para []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(para) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "-") ||
			strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "```") ||
			strings.HasPrefix(trimmed, ">") || strings.HasPrefix(trimmed, "|") {
			if len(para) > 0 {
				break
			}
			continue
		}
		para = append(para, trimmed)
	}
	return strings.Join(para, " ")
}
