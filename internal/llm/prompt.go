package llm

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// RenderTemplate fills a prompt template with state using text/template.
func RenderTemplate(text string, state map[string]any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New("prompt").Funcs(template.FuncMap{
		"default": func(defaultVal any, val any) any {
			if val == nil || val == "" {
				return defaultVal
			}
			return val
		},
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"join": func(sep string, items []string) string {
			return strings.Join(items, sep)
		},
	}).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, state); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func mustRender(text string, state map[string]any) string {
	out, err := RenderTemplate(text, state)
	if err != nil {
		panic(fmt.Sprintf("llm: bad prompt template: %v", err))
	}
	return out
}

const (
	tagSystem = `You are a part-of-speech tagger using the Penn Treebank tag set. ` +
		`Reply with a JSON array of tag strings, exactly one per input token, and nothing else.`

	tagPrompt = `Tokens ({{.Count}}): {{.Tokens}}`

	depSystem = `You are a dependency parser. For every token give the 0-based index of its head token ` +
		`(-1 for the single root) and a dependency label ({{join ", " .Labels}}). ` +
		`Reply with a JSON array of objects {"head": int, "label": string}, exactly one per token, and nothing else.`

	depPrompt = `Tagged tokens ({{.Count}}): {{.Tagged}}`

	conSystem = `You are a constituency parser using Penn Treebank phrase labels. ` +
		`Reply with one bracketed tree such as (S (NP (PRP I)) (VP (VBD left)) (. .)) ` +
		`whose leaves are exactly the given words with the given tags, in order, and nothing else.`

	conPrompt = `Tagged tokens ({{.Count}}): {{.Tagged}}`
)

// DependencyLabels lists the labels offered to the model.
var DependencyLabels = []string{"ROOT", "SUB", "OBJ", "VC", "VMOD", "NMOD", "PMOD", "AMOD", "PRD", "P", "DEP"}
