package mdmath

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Front matter formats, named after the delimiter that opens the block.
const (
	FrontMatterYAML = "yaml"
	FrontMatterTOML = "toml"
	FrontMatterJSON = "json"
)

// FrontMatter is a metadata block at the top of a Markdown document.
type FrontMatter struct {
	// Format is FrontMatterYAML for ---, FrontMatterTOML for +++ and
	// FrontMatterJSON for ;;;.
	Format string
	// Raw is the text between the delimiter lines.
	Raw string
	// Data holds the decoded metadata. It is nil when Err is set.
	Data map[string]any
	// Err reports a block that was recognized but did not decode. Math
	// scanning still starts after the block.
	Err error
}

var frontMatterDelimiters = map[string]string{
	"---": FrontMatterYAML,
	"+++": FrontMatterTOML,
	";;;": FrontMatterJSON,
}

// splitFrontMatter recognizes a front matter block at the start of src and
// returns it together with the offset of the first body byte.
func splitFrontMatter(src string) (*FrontMatter, int, bool) {
	openLine, openNext := nextLine(src, 0)
	delim := strings.TrimSpace(trimBOM(openLine))
	format, ok := frontMatterDelimiters[delim]
	if !ok {
		return nil, 0, false
	}
	secondLine, _ := nextLine(src, openNext)
	if !frontMatterMetadataLikely(secondLine) {
		return nil, 0, false
	}
	closeStart, closeNext, found := findClosingFrontMatterDelimiter(src, openNext, delim)
	if !found {
		return nil, 0, false
	}
	fm := &FrontMatter{Format: format, Raw: src[openNext:closeStart]}
	fm.Data, fm.Err = decodeFrontMatter(format, fm.Raw)
	return fm, closeNext, true
}

func decodeFrontMatter(format, raw string) (map[string]any, error) {
	data := map[string]any{}
	var err error
	switch format {
	case FrontMatterYAML:
		err = yaml.Unmarshal([]byte(raw), &data)
	case FrontMatterTOML:
		_, err = toml.Decode(raw, &data)
	case FrontMatterJSON:
		// Hugo style: the object braces may be omitted.
		body := strings.TrimSpace(raw)
		if !strings.HasPrefix(body, "{") {
			body = "{" + body + "}"
		}
		err = json.Unmarshal([]byte(body), &data)
	}
	if err != nil {
		return nil, fmt.Errorf("front matter %s: %w", format, err)
	}
	return data, nil
}

func nextLine(src string, start int) (string, int) {
	if start >= len(src) {
		return "", len(src)
	}
	i := strings.IndexByte(src[start:], '\n')
	if i < 0 {
		return trimCR(src[start:]), len(src)
	}
	end := start + i
	return trimCR(src[start:end]), end + 1
}

func frontMatterMetadataLikely(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return true
	}
	return strings.ContainsAny(trimmed, ":=")
}

// findClosingFrontMatterDelimiter returns the offsets where the closing
// delimiter line starts and where the line after it starts.
func findClosingFrontMatterDelimiter(src string, start int, delim string) (int, int, bool) {
	for idx := start; idx < len(src); {
		line, next := nextLine(src, idx)
		if strings.TrimSpace(line) == delim {
			return idx, next, true
		}
		idx = next
	}
	return 0, 0, false
}

func trimCR(s string) string {
	return strings.TrimSuffix(s, "\r")
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
