package template

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"postalservice/internal/domain/postal"
)

var _ postal.TemplateLoader = (*Engine)(nil)

//go:embed templates/*.html
var embedded embed.FS

// EmbeddedDir is the template directory inside the embedded filesystem.
const EmbeddedDir = "templates"

const (
	// layoutFile is parsed alongside every template and defines "layout".
	layoutFile = "layout.html"
	// partialPattern matches shared blocks such as "badge" that several templates use.
	partialPattern = "_*.html"
)

// Engine loads email templates from a filesystem using html/template.
// Each template is compiled together with the shared layout.
type Engine struct {
	fsys fs.FS
	dir  string
}

// NewEngine creates a template engine reading from dir inside fsys.
func NewEngine(fsys fs.FS, dir string) *Engine {
	if dir == "" {
		dir = "."
	}
	return &Engine{fsys: fsys, dir: dir}
}

// NewEmbeddedEngine creates a template engine over the templates compiled into the binary.
func NewEmbeddedEngine() *Engine {
	return NewEngine(embedded, EmbeddedDir)
}

// Load compiles the named template with the layout and every shared partial.
func (e *Engine) Load(name postal.TemplateName) (postal.Template, error) {
	file := string(name) + ".html"

	partials, err := fs.Glob(e.fsys, path.Join(e.dir, partialPattern))
	if err != nil {
		return nil, fmt.Errorf("listing partials in %s: %w", e.dir, err)
	}
	patterns := append([]string{path.Join(e.dir, layoutFile), path.Join(e.dir, file)}, partials...)

	tmpl, err := template.New(file).
		Option("missingkey=zero").
		Funcs(funcs()).
		ParseFS(e.fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s from %s: %w", name, e.dir, err)
	}

	return tmpl, nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"instantiate": instantiate,
	}
}

// instantiate renders a translated string as a template against the current
// variables, so catalog entries can reference fields like {{.fullName}}.
// Values are escaped; the markup in the catalog string is kept.
func instantiate(src string, data any) (template.HTML, error) {
	tmpl, err := template.New("instantiate").Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing translated string: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing translated string: %w", err)
	}
	return template.HTML(buf.String()), nil
}
