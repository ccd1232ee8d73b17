// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"html/template"
	"strconv"
)

// ContactSubject is the subject of messages sent from the contact form.
const ContactSubject = "Message from Brian Mwangi contact form"

// ConfirmSubject is the subject of the signup confirmation email.
const ConfirmSubject = "Confirm your email"

// ContactEmailData contains the details a visitor left on the contact form.
type ContactEmailData struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// ConfirmSignupEmailData contains the data for a signup confirmation email.
type ConfirmSignupEmailData struct {
	AppName    string
	UserName   string
	ConfirmURL string
	ExpiryHrs  int
}

// ContactEmail generates both plain text and HTML versions of a contact form message.
// Visitor input is escaped in the HTML version.
func ContactEmail(data ContactEmailData) (textBody, htmlBody string) {
	textBody = "Hi, I contacted you from Brian Mwangi website. Here are my details:\n\n" +
		"Name: " + data.Name + "\n" +
		"Email: " + data.Email + "\n" +
		"Phone: " + data.Phone + "\n" +
		"Message: " + data.Message + "\n"

	var buf bytes.Buffer
	contactHTMLTmpl.Execute(&buf, data)
	htmlBody = buf.String()

	return textBody, htmlBody
}

// ConfirmSignupEmail generates both plain text and HTML versions of the email
// that activates a new account.
func ConfirmSignupEmail(data ConfirmSignupEmailData) (textBody, htmlBody string) {
	textBody = "Hi " + data.UserName + ",\n\n" +
		"Thanks for signing up to " + data.AppName + ". Confirm your email to activate your account:\n\n" +
		data.ConfirmURL + "\n\n" +
		"This link will expire in " + strconv.Itoa(data.ExpiryHrs) + " hours.\n\n" +
		"If you did not sign up, you can safely ignore this email."

	var buf bytes.Buffer
	confirmHTMLTmpl.Execute(&buf, data)
	htmlBody = buf.String()

	return textBody, htmlBody
}

var contactHTMLTmpl = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Contact form message</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f4f4f5;">
  <div style="max-width: 480px; margin: 40px auto; padding: 32px; background-color: #ffffff; border-radius: 8px;">
    <p style="margin: 0 0 16px 0; font-size: 15px; line-height: 1.6; color: #52525b;">Hi, I contacted you from Brian Mwangi website. Here are my details:</p>
    <p style="margin: 0 0 8px 0; font-size: 15px; color: #18181b;">Name: {{.Name}}</p>
    <p style="margin: 0 0 8px 0; font-size: 15px; color: #18181b;">Email: {{.Email}}</p>
    <p style="margin: 0 0 8px 0; font-size: 15px; color: #18181b;">Phone: {{.Phone}}</p>
    <p style="margin: 0; font-size: 15px; line-height: 1.6; color: #18181b; white-space: pre-wrap;">Message: {{.Message}}</p>
  </div>
</body>
</html>`))

var confirmHTMLTmpl = template.Must(template.New("confirm_signup").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Confirm your email</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f4f4f5;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f4f4f5;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px 32px; text-align: center; border-bottom: 1px solid #e4e4e7;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #18181b;">{{.AppName}}</h1>
            </td>
          </tr>
          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <h2 style="margin: 0 0 16px 0; font-size: 20px; font-weight: 600; color: #18181b;">Welcome, {{.UserName}}</h2>
              <p style="margin: 0 0 24px 0; font-size: 15px; line-height: 1.6; color: #52525b;">
                Confirm your email address to activate your account.
              </p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center" style="padding: 8px 0 24px 0;">
                    <a href="{{.ConfirmURL}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 15px; font-weight: 600; border-radius: 6px;">Confirm Email</a>
                  </td>
                </tr>
              </table>
              <p style="margin: 0 0 16px 0; font-size: 14px; line-height: 1.6; color: #71717a;">
                This link will expire in <strong>{{.ExpiryHrs}} hours</strong>.
              </p>
              <p style="margin: 0; font-size: 14px; line-height: 1.6; color: #71717a;">
                If you did not sign up, you can safely ignore this email.
              </p>
            </td>
          </tr>
          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #fafafa; border-top: 1px solid #e4e4e7; border-radius: 0 0 8px 8px;">
              <p style="margin: 0 0 8px 0; font-size: 12px; color: #a1a1aa; text-align: center;">
                If the button doesn't work, copy and paste this link into your browser:
              </p>
              <p style="margin: 0; font-size: 12px; color: #4f46e5; text-align: center; word-break: break-all;">
                {{.ConfirmURL}}
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))
