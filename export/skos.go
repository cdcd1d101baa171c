package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cat-mip/cat-mip/registry"
)

// Format specifies the SKOS output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// ParseFormat normalizes user-supplied format names.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "turtle", "ttl", "":
		return FormatTurtle, nil
	case "ntriples", "nt":
		return FormatNTriples, nil
	case "jsonld", "json-ld":
		return FormatJSONLD, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: turtle, ntriples, jsonld)", s)
	}
}

// Namespace is the IRI prefix for registry concepts.
const Namespace = "https://cat-mip.org/terms/"

// Well-known predicate IRIs.
const (
	iriRDFType        = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	iriConcept        = "http://www.w3.org/2004/02/skos/core#Concept"
	iriConceptScheme  = "http://www.w3.org/2004/02/skos/core#ConceptScheme"
	iriInScheme       = "http://www.w3.org/2004/02/skos/core#inScheme"
	iriPrefLabel      = "http://www.w3.org/2004/02/skos/core#prefLabel"
	iriAltLabel       = "http://www.w3.org/2004/02/skos/core#altLabel"
	iriDefinition     = "http://www.w3.org/2004/02/skos/core#definition"
	iriRelated        = "http://www.w3.org/2004/02/skos/core#related"
	iriDctermsCreator = "http://purl.org/dc/terms/creator"
	iriDctermsIssued  = "http://purl.org/dc/terms/issued"
)

// titlePhraseRe finds Title Case phrases in relationship strings; a
// phrase matching another known term yields a skos:related link.
var titlePhraseRe = regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)*)\b`)

// concept is one SKOS concept derived from an accepted term.
type concept struct {
	slug       string
	prefLabel  string
	definition string
	altLabels  []string
	issued     string
	related    []string // concept IRIs
}

// SKOSExporter renders the accepted registry as a SKOS concept scheme.
type SKOSExporter struct {
	concepts []concept
	prefixes map[string]string
}

// NewSKOSExporter builds the concept scheme from every accepted term,
// alphabetically ordered.
func NewSKOSExporter(reg *registry.Registry) *SKOSExporter {
	accepted := reg.ByStatus(registry.StatusAccepted)

	known := make(map[string]string, len(accepted)) // lower(name) -> slug
	for _, t := range accepted {
		known[strings.ToLower(t.Name)] = t.Slug
	}

	e := &SKOSExporter{
		prefixes: map[string]string{
			"skos":    "http://www.w3.org/2004/02/skos/core#",
			"dcterms": "http://purl.org/dc/terms/",
			"catmip":  Namespace,
		},
	}

	for _, t := range accepted {
		c := concept{
			slug:       t.Slug,
			prefLabel:  t.Name,
			definition: strings.TrimSpace(t.Definition),
			altLabels:  t.Synonyms,
		}
		if len(t.History) > 0 {
			c.issued = t.History[0].Date
		}

		// Parse "A relatesTo B" strings and link known mentions.
		seen := make(map[string]bool)
		for _, rel := range t.Relationships {
			for _, phrase := range titlePhraseRe.FindAllString(rel, -1) {
				lower := strings.ToLower(phrase)
				if lower == strings.ToLower(t.Name) {
					continue
				}
				slug, ok := known[lower]
				if !ok || seen[slug] {
					continue
				}
				seen[slug] = true
				c.related = append(c.related, Namespace+slug)
			}
		}
		sort.Strings(c.related)

		e.concepts = append(e.concepts, c)
	}

	return e
}

// Len returns the number of concepts in the scheme.
func (e *SKOSExporter) Len() int {
	return len(e.concepts)
}

// Export serializes the concept scheme in the requested format.
func (e *SKOSExporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	case FormatJSONLD:
		return e.toJSONLD(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// Extension returns the conventional file extension for a format.
func (f Format) Extension() string {
	switch f {
	case FormatNTriples:
		return ".nt"
	case FormatJSONLD:
		return ".jsonld"
	default:
		return ".ttl"
	}
}

func (e *SKOSExporter) toTurtle() string {
	var sb strings.Builder

	keys := make([]string, 0, len(e.prefixes))
	for k := range e.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", prefix, e.prefixes[prefix])
	}
	sb.WriteString("\n")

	// Concept scheme
	sb.WriteString("catmip: a skos:ConceptScheme ;\n")
	fmt.Fprintf(&sb, "    skos:prefLabel %s ;\n", turtleLangLiteral(SchemeTitle))
	fmt.Fprintf(&sb, "    dcterms:creator %s ;\n", turtleLiteral(SchemeAuthor))
	fmt.Fprintf(&sb, "    dcterms:issued %s .\n\n", turtleLiteral(SchemeIssued))

	for _, c := range e.concepts {
		e.writeConceptTurtle(&sb, c)
		sb.WriteString("\n")
	}

	return sb.String()
}

func (e *SKOSExporter) writeConceptTurtle(sb *strings.Builder, c concept) {
	fmt.Fprintf(sb, "<%s%s>\n", Namespace, c.slug)

	lines := []string{
		"    a skos:Concept",
		"    skos:inScheme catmip:",
		fmt.Sprintf("    skos:prefLabel %s", turtleLangLiteral(c.prefLabel)),
	}
	if c.definition != "" {
		lines = append(lines, fmt.Sprintf("    skos:definition %s", turtleLangLiteral(c.definition)))
	}
	for _, alt := range c.altLabels {
		lines = append(lines, fmt.Sprintf("    skos:altLabel %s", turtleLangLiteral(alt)))
	}
	if c.issued != "" {
		lines = append(lines, fmt.Sprintf("    dcterms:issued %s", turtleLiteral(c.issued)))
	}
	for _, rel := range c.related {
		lines = append(lines, fmt.Sprintf("    skos:related <%s>", rel))
	}

	for i, line := range lines {
		sb.WriteString(line)
		if i < len(lines)-1 {
			sb.WriteString(" ;\n")
		} else {
			sb.WriteString(" .\n")
		}
	}
}

func (e *SKOSExporter) toNTriples() string {
	var sb strings.Builder

	scheme := strings.TrimSuffix(Namespace, "/")
	fmt.Fprintf(&sb, "<%s> <%s> <%s> .\n", scheme, iriRDFType, iriConceptScheme)
	fmt.Fprintf(&sb, "<%s> <%s> %s .\n", scheme, iriPrefLabel, ntLangLiteral(SchemeTitle))
	fmt.Fprintf(&sb, "<%s> <%s> %s .\n", scheme, iriDctermsCreator, ntLiteral(SchemeAuthor))
	fmt.Fprintf(&sb, "<%s> <%s> %s .\n", scheme, iriDctermsIssued, ntLiteral(SchemeIssued))

	for _, c := range e.concepts {
		iri := Namespace + c.slug
		fmt.Fprintf(&sb, "<%s> <%s> <%s> .\n", iri, iriRDFType, iriConcept)
		fmt.Fprintf(&sb, "<%s> <%s> <%s> .\n", iri, iriInScheme, scheme)
		fmt.Fprintf(&sb, "<%s> <%s> %s .\n", iri, iriPrefLabel, ntLangLiteral(c.prefLabel))
		if c.definition != "" {
			fmt.Fprintf(&sb, "<%s> <%s> %s .\n", iri, iriDefinition, ntLangLiteral(c.definition))
		}
		for _, alt := range c.altLabels {
			fmt.Fprintf(&sb, "<%s> <%s> %s .\n", iri, iriAltLabel, ntLangLiteral(alt))
		}
		if c.issued != "" {
			fmt.Fprintf(&sb, "<%s> <%s> %s .\n", iri, iriDctermsIssued, ntLiteral(c.issued))
		}
		for _, rel := range c.related {
			fmt.Fprintf(&sb, "<%s> <%s> <%s> .\n", iri, iriRelated, rel)
		}
	}

	return sb.String()
}

func (e *SKOSExporter) toJSONLD() string {
	var sb strings.Builder

	sb.WriteString("{\n")
	sb.WriteString("  \"@context\": {\n")

	keys := make([]string, 0, len(e.prefixes))
	for k := range e.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, prefix := range keys {
		fmt.Fprintf(&sb, "    %q: %q", prefix, e.prefixes[prefix])
		if i < len(keys)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  },\n")
	sb.WriteString("  \"@graph\": [\n")

	scheme := strings.TrimSuffix(Namespace, "/")
	fmt.Fprintf(&sb, "    {\"@id\": %q, \"@type\": \"skos:ConceptScheme\", \"skos:prefLabel\": %q}", scheme, SchemeTitle)

	for _, c := range e.concepts {
		sb.WriteString(",\n")
		e.writeConceptJSONLD(&sb, c, scheme)
	}

	sb.WriteString("\n  ]\n}\n")
	return sb.String()
}

func (e *SKOSExporter) writeConceptJSONLD(sb *strings.Builder, c concept, scheme string) {
	sb.WriteString("    {\n")
	fmt.Fprintf(sb, "      \"@id\": %q,\n", Namespace+c.slug)
	sb.WriteString("      \"@type\": \"skos:Concept\",\n")
	fmt.Fprintf(sb, "      \"skos:inScheme\": {\"@id\": %q},\n", scheme)
	fmt.Fprintf(sb, "      \"skos:prefLabel\": {\"@value\": %q, \"@language\": \"en\"}", c.prefLabel)

	if c.definition != "" {
		fmt.Fprintf(sb, ",\n      \"skos:definition\": {\"@value\": %q, \"@language\": \"en\"}", c.definition)
	}
	if len(c.altLabels) > 0 {
		sb.WriteString(",\n      \"skos:altLabel\": [")
		for i, alt := range c.altLabels {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "{\"@value\": %q, \"@language\": \"en\"}", alt)
		}
		sb.WriteString("]")
	}
	if c.issued != "" {
		fmt.Fprintf(sb, ",\n      \"dcterms:issued\": %q", c.issued)
	}
	if len(c.related) > 0 {
		sb.WriteString(",\n      \"skos:related\": [")
		for i, rel := range c.related {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "{\"@id\": %q}", rel)
		}
		sb.WriteString("]")
	}

	sb.WriteString("\n    }")
}

// escapeLiteral escapes special characters for Turtle and N-Triples.
func escapeLiteral(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

func turtleLiteral(s string) string {
	return fmt.Sprintf("\"%s\"", escapeLiteral(s))
}

func turtleLangLiteral(s string) string {
	return fmt.Sprintf("\"%s\"@en", escapeLiteral(s))
}

func ntLiteral(s string) string {
	return turtleLiteral(s)
}

func ntLangLiteral(s string) string {
	return turtleLangLiteral(s)
}
