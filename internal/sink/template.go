package sink

import "strings"

// DefaultTemplate is used when a Watcher does not specify its own log
// format string.
const DefaultTemplate = "{event} {ftype} '{path}{sep}{file}' ({pod}:{node})"

// renderTemplate expands "{name}" placeholders against values. An unknown
// placeholder or an unterminated "{" is a syntax error that drops the whole
// event rather than partially rendering it, per spec: "unknown placeholders
// or syntax errors produce a warning and skip the offending event."
// The grammar is deliberately not Go's "{{name}}" text/template syntax.
func renderTemplate(tmpl string, values map[string]string) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(tmpl) {
		open := strings.IndexByte(tmpl[i:], '{')
		if open < 0 {
			out.WriteString(tmpl[i:])
			break
		}
		out.WriteString(tmpl[i : i+open])
		start := i + open
		end := strings.IndexByte(tmpl[start:], '}')
		if end < 0 {
			return "", errUnterminatedPlaceholder(tmpl[start:])
		}
		name := tmpl[start+1 : start+end]
		v, ok := values[name]
		if !ok {
			return "", errUnknownPlaceholder(name)
		}
		out.WriteString(v)
		i = start + end + 1
	}
	return out.String(), nil
}

type errUnterminatedPlaceholder string

func (e errUnterminatedPlaceholder) Error() string {
	return "sink: unterminated placeholder starting at " + string(e)
}

type errUnknownPlaceholder string

func (e errUnknownPlaceholder) Error() string {
	return "sink: unknown placeholder {" + string(e) + "}"
}
