// Package mdmath parses the LaTeX math embedded in Markdown documents into
// expression trees.
//
// A document is scanned for $...$ (inline) and $$...$$ (display) spans. Each
// span is tokenized and parsed by a recursive-descent parser that understands
// operator precedence, implicit multiplication, sub- and superscripts,
// \frac, \sqrt and \vec, derivatives, \left/\right fences, matrix
// environments and the |x| / ||x|| delimiter grammar.
//
// Core properties:
//   - Pure functions over strings; no shared state between calls
//   - Failed spans are skipped by ParseMarkdownMath and reported by Scan
//   - Characters that match no token are kept as Diagnostics
//   - Render output reparses to a tree of the same shape
//
// Example:
//
//	for _, block := range mdmath.ParseMarkdownMath("Energy: $E = mc^2$") {
//		fmt.Println(block)
//	}
//
// Scan adds options for front matter, code spans and input validation, and
// Highlight renders a tree with a terminal Theme.
package mdmath
