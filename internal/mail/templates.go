package mail

import (
	"bytes"
	"html/template"
)

const VerificationSubject = "Activate your account"

var verificationTmpl = template.Must(template.New("verify").Parse(`<div style="font-family:Arial,sans-serif;line-height:1.5">
  <h2>Account activation</h2>
  <p>Hi {{.Name}}, click the link below to activate your account:</p>
  <p><a href="{{.Link}}">{{.Link}}</a></p>
  <p>The link expires in {{.ExpiresIn}}. If this wasn't you, ignore this message.</p>
</div>`))

// VerificationHTML renders the activation email body.
func VerificationHTML(name, link, expiresIn string) (string, error) {
	var buf bytes.Buffer
	err := verificationTmpl.Execute(&buf, struct {
		Name, Link, ExpiresIn string
	}{name, link, expiresIn})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
