package agent

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"gopkg.in/yaml.v3"
)

const (
	promptProductClassify = "product_classify"
	promptProductRate     = "product_rate"
	promptFaceClassify    = "face_classify"
	promptFaceAnalyze     = "face_analyze"

	userDataBegin = "BEGIN_USER_DATA"
	userDataEnd   = "END_USER_DATA"
	maxUserField  = 500
)

//go:embed prompts.yaml
var promptsYAML []byte

type promptFile struct {
	System  string            `yaml:"system"`
	Prompts map[string]string `yaml:"prompts"`
}

// Prompts is the parsed prompt catalog.
type Prompts struct {
	system    string
	templates map[string]*template.Template
}

// LoadPrompts parses the embedded catalog.
func LoadPrompts() (*Prompts, error) {
	return ParsePrompts(promptsYAML)
}

// ParsePrompts parses a YAML catalog with a system prompt and named templates.
func ParsePrompts(data []byte) (*Prompts, error) {
	var file promptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}
	if strings.TrimSpace(file.System) == "" {
		return nil, fmt.Errorf("prompt catalog has no system prompt")
	}

	funcs := template.FuncMap{
		"wrap": wrapUserData,
		"join": strings.Join,
	}
	p := &Prompts{system: strings.TrimSpace(file.System), templates: make(map[string]*template.Template, len(file.Prompts))}
	for _, name := range []string{promptProductClassify, promptProductRate, promptFaceClassify, promptFaceAnalyze} {
		body, ok := file.Prompts[name]
		if !ok {
			return nil, fmt.Errorf("prompt %q missing from catalog", name)
		}
		tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(body)
		if err != nil {
			return nil, fmt.Errorf("parse prompt %q: %w", name, err)
		}
		p.templates[name] = tmpl
	}
	return p, nil
}

// System returns the system instruction.
func (p *Prompts) System() string { return p.system }

// Render executes the named prompt.
func (p *Prompts) Render(name string, data any) (string, error) {
	tmpl, ok := p.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// sanitizeUserInput removes control characters and data markers and truncates
// to maxLen runes.
func sanitizeUserInput(s string, maxLen int) string {
	s = strings.NewReplacer(userDataBegin, "", userDataEnd, "").Replace(s)
	var sb strings.Builder
	n := 0
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		if n == maxLen {
			sb.WriteString("...")
			break
		}
		sb.WriteRune(r)
		n++
	}
	return strings.TrimSpace(sb.String())
}

// wrapUserData fences user-provided content off from instructions.
func wrapUserData(content string) string {
	return fmt.Sprintf("%s\n%s\n%s", userDataBegin, content, userDataEnd)
}
