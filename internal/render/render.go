package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"schema-evolver/internal/ir"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

const indentUnit = "  "

var (
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

type stylesheetData struct {
	Version   string
	Imports   []string
	Method    string
	Indent    bool
	Templates []string
}

var stylesheetTemplate = template.Must(template.New("stylesheet").
	Funcs(template.FuncMap{"attr": attrEscaper.Replace}).
	Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!-- Generated by evolve-gen. DO NOT EDIT. -->
<xsl:stylesheet version="{{attr .Version}}" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
{{- range .Imports}}
  <xsl:import href="{{attr .}}"/>
{{- end}}
  <xsl:output method="{{attr .Method}}" indent="{{if .Indent}}yes{{else}}no{{end}}"/>
{{- range .Templates}}

{{.}}
{{- end}}

</xsl:stylesheet>
`))

// Render serializes p.
func Render(p *ir.Program) ([]byte, error) {
	data := stylesheetData{
		Version: p.Version,
		Imports: p.Imports,
		Method:  p.Output.Method,
		Indent:  p.Output.Indent,
	}

	for _, t := range p.Templates {
		s, err := renderTemplate(t)
		if err != nil {
			return nil, fmt.Errorf("rendering template %s: %w", templateLabel(t), err)
		}

		data.Templates = append(data.Templates, s)
	}

	var buf bytes.Buffer
	if err := stylesheetTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing stylesheet template: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile renders p to path, creating the parent directory if needed.
func WriteFile(p *ir.Program, path string) error {
	content, err := Render(p)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := os.WriteFile(path, content, filePerm); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}

	return nil
}

func templateLabel(t *ir.Template) string {
	if t.Name != "" {
		return t.Name
	}

	return fmt.Sprintf("match=%q", t.Match)
}

func renderTemplate(t *ir.Template) (string, error) {
	w := &writer{depth: 1}

	if t.Comment != "" {
		w.line("<!-- %s -->", comment(t.Comment))
	}

	var attrs []string
	if t.Match != "" {
		attrs = append(attrs, attr("match", t.Match))
	}

	if t.Name != "" {
		attrs = append(attrs, attr("name", t.Name))
	}

	if t.Priority != "" {
		attrs = append(attrs, attr("priority", t.Priority))
	}

	head := "xsl:template " + strings.Join(attrs, " ")

	if len(t.Params) == 0 && t.Body.Len() == 0 {
		w.line("<%s/>", head)
		return w.String(), nil
	}

	w.line("<%s>", head)
	w.depth++

	for _, p := range t.Params {
		w.line("<xsl:param %s %s/>", attr("name", p.Name), attr("select", p.Select))
	}

	if err := w.block(t.Body); err != nil {
		return "", err
	}

	w.depth--
	w.line("</xsl:template>")

	return w.String(), nil
}

type writer struct {
	sb    strings.Builder
	depth int
}

func (w *writer) line(format string, args ...any) {
	if w.sb.Len() > 0 {
		w.sb.WriteByte('\n')
	}

	w.sb.WriteString(strings.Repeat(indentUnit, w.depth))
	fmt.Fprintf(&w.sb, format, args...)
}

func (w *writer) String() string {
	return w.sb.String()
}

func (w *writer) block(b ir.Block) error {
	for _, op := range b.Ops {
		if err := w.op(op); err != nil {
			return err
		}
	}

	return nil
}

// wrap writes open, the nested block and the closing tag, collapsing to a
// self-closing tag when the block is empty.
func (w *writer) wrap(tag, attrs string, b ir.Block) error {
	open := tag
	if attrs != "" {
		open += " " + attrs
	}

	if b.Len() == 0 {
		w.line("<%s/>", open)
		return nil
	}

	w.line("<%s>", open)
	w.depth++

	if err := w.block(b); err != nil {
		return err
	}

	w.depth--
	w.line("</%s>", tag)

	return nil
}

func (w *writer) op(op ir.Op) error {
	switch o := op.(type) {
	case *ir.Element:
		return w.wrap(o.Name, "", o.Body)
	case *ir.Attribute:
		w.attribute(o)
	case *ir.Call:
		w.withParams("xsl:call-template", attr("name", o.Name), o.Params)
	case *ir.Apply:
		w.withParams("xsl:apply-templates", attr("select", o.Select), o.Params)
	case *ir.CopyOf:
		w.line("<xsl:copy-of %s/>", attr("select", o.Select))
	case *ir.Copy:
		return w.wrap("xsl:copy", "", o.Body)
	case *ir.Loop:
		return w.wrap("xsl:for-each", attr("select", loopRange(o.Count)), o.Body)
	case *ir.If:
		return w.wrap("xsl:if", attr("test", o.Test), o.Body)
	case *ir.Choose:
		return w.choose(o)
	case *ir.Message:
		w.message(o)
	case *ir.Comment:
		w.line("<!-- %s -->", comment(o.Text))
	default:
		return fmt.Errorf("unsupported operation %T", op)
	}

	return nil
}

func (w *writer) attribute(a *ir.Attribute) {
	name := attr("name", a.Name)

	switch {
	case a.Select != "":
		w.line("<xsl:attribute %s %s/>", name, attr("select", a.Select))
	case a.Value != "":
		w.line("<xsl:attribute %s>%s</xsl:attribute>", name, textEscaper.Replace(a.Value))
	default:
		w.line("<xsl:attribute %s/>", name)
	}
}

func (w *writer) withParams(tag, attrs string, params []ir.WithParam) {
	if len(params) == 0 {
		w.line("<%s %s/>", tag, attrs)
		return
	}

	w.line("<%s %s>", tag, attrs)
	w.depth++

	for _, p := range params {
		w.line("<xsl:with-param %s %s/>", attr("name", p.Name), attr("select", p.Select))
	}

	w.depth--
	w.line("</%s>", tag)
}

func (w *writer) choose(c *ir.Choose) error {
	w.line("<xsl:choose>")
	w.depth++

	for _, b := range c.Branches {
		if err := w.wrap("xsl:when", attr("test", b.Test), b.Body); err != nil {
			return err
		}
	}

	if c.Otherwise != nil {
		if err := w.wrap("xsl:otherwise", "", *c.Otherwise); err != nil {
			return err
		}
	}

	w.depth--
	w.line("</xsl:choose>")

	return nil
}

func (w *writer) message(m *ir.Message) {
	terminate := "no"
	if m.Terminate {
		terminate = "yes"
	}

	body := textEscaper.Replace(m.Text)
	if m.Select != "" {
		body += fmt.Sprintf("<xsl:value-of %s/>", attr("select", m.Select))
	}

	w.line("<xsl:message %s>%s</xsl:message>", attr("terminate", terminate), body)
}

func attr(name, value string) string {
	return name + `="` + attrEscaper.Replace(value) + `"`
}

// loopRange turns a repetition count into the sequence iterated over.
func loopRange(count string) string {
	for _, c := range count {
		if c < '0' || c > '9' {
			return "1 to (" + count + ")"
		}
	}

	return "1 to " + count
}

// comment keeps text from closing the comment early.
func comment(text string) string {
	for strings.Contains(text, "--") {
		text = strings.ReplaceAll(text, "--", "- -")
	}

	return strings.TrimSuffix(text, "-")
}
