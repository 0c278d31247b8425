package typemap

import "strings"

// Annotation is a single tag parsed from the documentation of a field,
// e.g. `@var Address[] the shipping addresses`.
type Annotation struct {
	Type        string
	Description string
}

// AnnotationParser extracts annotations from the documentation text of a field,
// keyed by tag name without the leading `@`. The mapper only consults the "var" tag.
// Implementations must be safe for concurrent use.
type AnnotationParser interface {
	ParseAnnotations(doc string) map[string]Annotation
}

// DocParser is the default [AnnotationParser]. It splits the text at every `@`
// that starts a word. The first word after the tag name is the type, the rest
// the description:
//
//	@var OrderLine[] lines of the order @deprecated
//
// A tag appearing more than once keeps its first occurrence.
type DocParser struct{}

func (DocParser) ParseAnnotations(doc string) map[string]Annotation {
	annotations := map[string]Annotation{}

	for _, segment := range splitTags(doc) {
		name, rest, _ := strings.Cut(segment, " ")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if _, exists := annotations[name]; exists {
			continue
		}

		typ, description, _ := strings.Cut(strings.TrimSpace(rest), " ")

		annotations[name] = Annotation{
			Type:        typ,
			Description: strings.TrimSpace(description),
		}
	}

	return annotations
}

// splitTags returns the text following each `@` at the start of a word.
func splitTags(doc string) []string {
	var segments []string

	fields := strings.Fields(doc)
	for idx := 0; idx < len(fields); idx++ {
		if !strings.HasPrefix(fields[idx], "@") {
			continue
		}

		end := idx + 1
		for end < len(fields) && !strings.HasPrefix(fields[end], "@") {
			end++
		}

		segment := strings.TrimPrefix(fields[idx], "@")
		if end > idx+1 {
			segment += " " + strings.Join(fields[idx+1:end], " ")
		}

		segments = append(segments, segment)
		idx = end - 1
	}

	return segments
}
