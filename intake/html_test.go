package intake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glossaryPage = `<!DOCTYPE html>
<html>
<head>
<title>Agent</title>
<meta name="description" content="A software agent acts on behalf of a user.">
</head>
<body>
<article>
<h1>Agent</h1>
<p>A software agent acts on behalf of a user or another program. Agents run
autonomously and report their results back to the managing platform when a
task completes.</p>
<p>Managed service providers deploy agents to customer endpoints so routine
maintenance can happen without an operator connecting to each machine.</p>
<ul>
<li>Monitoring agents collect metrics</li>
<li>Patch agents install updates</li>
</ul>
</article>
</body>
</html>`

func TestHTMLImport(t *testing.T) {
	importer := NewHTMLImporter()
	imported, err := importer.Import([]byte(glossaryPage), "")
	require.NoError(t, err)

	assert.Contains(t, imported.Title, "Agent")
	assert.NotEmpty(t, imported.Definition)
	assert.Contains(t, imported.Markdown, "software agent")
	assert.NotContains(t, imported.Markdown, "<p>", "markup is converted, not passed through")
}

func TestHTMLImportTerm(t *testing.T) {
	importer := NewHTMLImporter()
	imported, err := importer.Import([]byte(glossaryPage), "")
	require.NoError(t, err)

	term, err := imported.Term("Ada", "ada", "https://example.com/glossary/agent")
	require.NoError(t, err)

	assert.Contains(t, term.Name, "Agent")
	assert.NotEmpty(t, term.Definition)
	assert.Equal(t, "https://example.com/glossary/agent", term.Discussion)
	require.Len(t, term.Authors, 1)
	assert.Equal(t, "Ada", term.Authors[0].Name)
}

func TestHTMLImportTermRequiresTitle(t *testing.T) {
	imported := &HTMLImport{Definition: "something"}
	_, err := imported.Term("Ada", "ada", "")
	assert.Error(t, err)
}

func TestExtractHTMLTitle(t *testing.T) {
	title := extractHTMLTitle([]byte("<html><head><title> My Page </title></head><body></body></html>"))
	assert.Equal(t, "My Page", title)

	assert.Equal(t, "", extractHTMLTitle([]byte("<html><body><p>no title</p></body></html>")))
}

func TestCleanMarkdown(t *testing.T) {
	in := "# Title   \n\n\n\n\n\nBody line.  \n"
	out := cleanMarkdown(in)
	assert.Equal(t, "# Title\n\n\nBody line.", out)
}

func TestExtractMarkdownTitle(t *testing.T) {
	assert.Equal(t, "Agent", extractMarkdownTitle("intro\n# Agent\nbody"))
	assert.Equal(t, "", extractMarkdownTitle("no heading here"))
}

func TestFirstParagraph(t *testing.T) {
	md := strings.Join([]string{
		"# Heading",
		"",
		"First sentence.",
		"Second sentence.",
		"",
		"Another paragraph.",
	}, "\n")

	assert.Equal(t, "First sentence. Second sentence.", firstParagraph(md))
	assert.Equal(t, "", firstParagraph("# Only\n- a list\n"))
}
