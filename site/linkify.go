// Package site generates the registry documentation tree: one
// Markdown page per term, per-status index pages, and a root index,
// with term mentions auto-linked across pages.
package site

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cat-mip/cat-mip/registry"
)

// linkTarget is one known term a mention can link to.
type linkTarget struct {
	display string
	pattern *regexp.Regexp // anchored, case-insensitive
	slug    string
	status  registry.Status
}

// Linkifier rewrites prose so mentions of known terms become relative
// Markdown links. Longer terms win ("AI Agent" before "Agent"), links
// never point at the page being rendered, and code spans and fenced
// blocks are left untouched.
type Linkifier struct {
	targets []linkTarget
}

// NewLinkifier builds a linkifier over every term in the registry.
func NewLinkifier(reg *registry.Registry) *Linkifier {
	l := &Linkifier{}
	for _, term := range reg.Terms {
		escaped := regexp.QuoteMeta(term.Name)
		l.targets = append(l.targets, linkTarget{
			display: term.Name,
			pattern: regexp.MustCompile(`(?i)^` + escaped + `\b`),
			slug:    term.Slug,
			status:  term.Status,
		})
	}
	// Longest display name first so "AI Agent" beats "Agent".
	sort.SliceStable(l.targets, func(i, j int) bool {
		return len(l.targets[i].display) > len(l.targets[j].display)
	})
	return l
}

// Linkify rewrites text for the page identified by currentSlug and
// currentStatus.
func (l *Linkifier) Linkify(text, currentSlug string, currentStatus registry.Status) string {
	if text == "" || len(l.targets) == 0 {
		return text
	}

	var sb strings.Builder
	pos := 0
	for pos < len(text) {
		fenceStart := strings.Index(text[pos:], "```")
		if fenceStart == -1 {
			sb.WriteString(l.linkifyProse(text[pos:], currentSlug, currentStatus))
			break
		}
		fenceStart += pos
		sb.WriteString(l.linkifyProse(text[pos:fenceStart], currentSlug, currentStatus))

		fenceEnd := strings.Index(text[fenceStart+3:], "```")
		if fenceEnd == -1 {
			sb.WriteString(text[fenceStart:])
			break
		}
		fenceEnd += fenceStart + 3 + 3
		sb.WriteString(text[fenceStart:fenceEnd])
		pos = fenceEnd
	}
	return sb.String()
}

// linkifyProse handles inline code spans, then links the gaps.
func (l *Linkifier) linkifyProse(prose, currentSlug string, currentStatus registry.Status) string {
	if prose == "" {
		return prose
	}
	var sb strings.Builder
	pos := 0
	for pos < len(prose) {
		codeStart := strings.IndexByte(prose[pos:], '`')
		if codeStart == -1 {
			sb.WriteString(l.matchReplace(prose[pos:], currentSlug, currentStatus))
			break
		}
		codeStart += pos
		sb.WriteString(l.matchReplace(prose[pos:codeStart], currentSlug, currentStatus))

		codeEnd := strings.IndexByte(prose[codeStart+1:], '`')
		if codeEnd == -1 {
			sb.WriteString(prose[codeStart:])
			break
		}
		codeEnd += codeStart + 1
		sb.WriteString(prose[codeStart : codeEnd+1])
		pos = codeEnd + 1
	}
	return sb.String()
}

// matchReplace scans plain prose one position at a time, trying every
// target (longest first) anchored at the position.
func (l *Linkifier) matchReplace(prose, currentSlug string, currentStatus registry.Status) string {
	var sb strings.Builder
	pos := 0
	for pos < len(prose) {
		matched := false
		if boundaryBefore(prose, pos) {
			for _, t := range l.targets {
				if t.slug == currentSlug {
					continue
				}
				loc := t.pattern.FindStringIndex(prose[pos:])
				if loc == nil {
					continue
				}
				mention := prose[pos : pos+loc[1]]
				sb.WriteString(fmt.Sprintf("[%s](%s)", mention, relLink(t, currentStatus)))
				pos += loc[1]
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(prose[pos])
			pos++
		}
	}
	return sb.String()
}

// relLink computes the page-relative link for a target: same folder as
// the current page links "slug.md", other folders "../status/slug.md".
func relLink(t linkTarget, currentStatus registry.Status) string {
	if t.status == currentStatus {
		return t.slug + ".md"
	}
	return fmt.Sprintf("../%s/%s.md", t.status, t.slug)
}

// boundaryBefore reports whether pos sits at a word boundary with
// respect to the preceding byte.
func boundaryBefore(s string, pos int) bool {
	if pos == 0 {
		return true
	}
	return !isWordByte(s[pos-1])
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
