package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Render produces subject, text and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case "welcome":
		return renderWelcome(data)
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}

var welcomeHTML = template.Must(template.New("welcome").Parse(`
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Welcome to {{.Company}}, {{.Name}}!</h2>
    <p>Your account <strong>{{.Username}}</strong> was created successfully.</p>
    <p>You can sign in with your email address {{.Email}}.</p>
    <p style="color: #888; font-size: 12px;">If you did not create this account, please contact support.</p>
  </body>
</html>`))

func renderWelcome(data map[string]any) (string, string, string, error) {
	var buf bytes.Buffer
	if err := welcomeHTML.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	subject := fmt.Sprintf("Welcome to %v", data["Company"])
	text := fmt.Sprintf("Welcome, %v! Your account %v was created successfully.", data["Name"], data["Username"])
	return subject, text, buf.String(), nil
}
