package mail

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/notifykit/notifykit/pkg/notification"
)

// templateData is what every mail template renders.
type templateData struct {
	Title      string
	Body       string
	Category   string
	Severity   string
	Attributes []attributeRow
}

type attributeRow struct {
	Key   string
	Value string
}

const baseLayout = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
%s
{{if .Attributes}}<table border="0" cellpadding="4">
{{range .Attributes}}<tr><td><strong>{{.Key}}</strong></td><td>{{.Value}}</td></tr>
{{end}}</table>{{end}}
</body>
</html>`

var templateBodies = map[notification.Category]string{
	notification.CategoryAlert: `<h2 style="color: #b00;">&#9888; {{.Title}}</h2>
<p><em>{{.Severity}} alert</em></p>
<p>{{.Body}}</p>`,
	notification.CategoryReport: `<h2>{{.Title}}</h2>
<p>Your scheduled report is ready.</p>
<p>{{.Body}}</p>`,
	notification.CategorySystem: `<h2>{{.Title}}</h2>
<p>System notice ({{.Severity}}):</p>
<p>{{.Body}}</p>`,
}

const defaultBody = `<h2>{{.Title}}</h2>
<p>{{.Body}}</p>`

// buildTemplates parses one template per category plus the default
// fallback. Called once at construction; a parse failure is a
// programming error and surfaces immediately.
func buildTemplates() (map[notification.Category]*template.Template, *template.Template, error) {
	byCategory := make(map[notification.Category]*template.Template, len(templateBodies))
	for cat, body := range templateBodies {
		tpl, err := template.New(string(cat)).Parse(fmt.Sprintf(baseLayout, body))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s template: %w", cat, err)
		}
		byCategory[cat] = tpl
	}

	fallback, err := template.New("default").Parse(fmt.Sprintf(baseLayout, defaultBody))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse default template: %w", err)
	}
	return byCategory, fallback, nil
}

// renderAttributes flattens the attribute bag into sorted key/value
// rows. Values are rendered with %v; nested maps come out in Go map
// syntax, which is acceptable for the structured-context table.
func renderAttributes(attrs map[string]any) []attributeRow {
	if len(attrs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]attributeRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, attributeRow{Key: k, Value: fmt.Sprintf("%v", attrs[k])})
	}
	return rows
}

func subjectFor(n notification.Notification) string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(string(n.Severity)), n.Title)
}
