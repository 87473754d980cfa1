package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/konst/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "reset", "clear", "quit"}

// keywords begin definitions and are offered alongside defined names.
var keywords = []string{"let", "fn"}

// isWordBoundary reports whether r separates words for completion: whitespace,
// operators, braces, and the punctuation of definitions.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'+', '-', '*', '/',
		'{', '}', ';', '=', '>':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor position and its byte boundaries
// within input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// evalCandidates returns the names offered for completion in eval mode: the
// session's definitions followed by the keywords it does not shadow.
func evalCandidates(session *lang.Session) []string {
	names := session.Names()
	candidates := make([]string, 0, len(names)+len(keywords))

	for _, name := range names {
		candidates = append(candidates, string(name))
	}

	for _, kw := range keywords {
		if !slices.Contains(candidates, kw) {
			candidates = append(candidates, kw)
		}
	}

	return candidates
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word has no matches, leaving the hint line visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	word, wordStart, wordEnd := wordBounds(m.input.Value(), m.input.Position())
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = evalCandidates(m.session)
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		reserve := ellipsisWidth
		if last {
			reserve = 0
		}

		if i > 0 && used+entryWidth+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}

// formatPreview returns a one-line summary of a definition for the list
// command, truncated to width runes.
func formatPreview(name lang.Identifier, v lang.NamedValue, width int) string {
	src := lang.Definition(name, v)

	if width > 3 && utf8.RuneCountInString(src) > width {
		src = string([]rune(src)[:width-3]) + "..."
	}

	return src
}
