package helpers

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// strict вырезает любую разметку из пользовательского текста.
var strict = bluemonday.StrictPolicy()

// SafeText: пользовательский ввод для вставки в HTML письма.
func SafeText(s string) string {
	clean := strict.Sanitize(s)
	return strings.ReplaceAll(clean, "\n", "<br>")
}

func BuildSimpleHTML(title, body string) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="600" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#333; margin-top:0; text-align:center;">%s</h2>
                <div style="font-size:16px; color:#666; line-height:1.6;">%s</div>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">This is an automated message from your portfolio.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, title, body)
}

// PasswordResetText: текстовая версия письма сброса.
func PasswordResetText(resetURL string, ttl time.Duration) string {
	return fmt.Sprintf(`You are receiving this email because you (or someone else) has requested the reset of a password.

Please click on the following link, or paste this into your browser to complete the process:

%s

If you did not request this, please ignore this email and your password will remain unchanged.

This link will expire in %d minutes.`, resetURL, int(ttl.Minutes()))
}

func BuildPasswordResetHTML(resetURL string, ttl time.Duration) string {
	link := html.EscapeString(resetURL)
	body := fmt.Sprintf(`
      <p>You are receiving this email because you (or someone else) has requested the reset of a password for your account.</p>
      <p style="text-align:center; margin:30px 0;">
        <a href="%s" style="background-color:#007bff; color:#fff; padding:15px 30px; text-decoration:none; border-radius:5px; display:inline-block; font-weight:bold;">Reset Password</a>
      </p>
      <p>If you did not request this, please ignore this email and your password will remain unchanged.</p>
      <p style="color:#999; font-size:14px; text-align:center;">This link will expire in %d minutes.</p>
      <p style="color:#999; font-size:12px; text-align:center;">
        If you're having trouble clicking the "Reset Password" button, copy and paste the URL below into your web browser:<br>
        <span style="word-break:break-all;">%s</span>
      </p>
    `, link, int(ttl.Minutes()), link)
	return BuildSimpleHTML("Password Reset Request", body)
}

// NewMessageText: уведомление админу о заявке из контактной формы.
func NewMessageText(name, email, subject, message string) string {
	return fmt.Sprintf(`You have a new message from %s (%s):

Subject: %s

Message:
%s`, name, email, subject, message)
}

func BuildNewMessageHTML(name, email, subject, message string) string {
	body := fmt.Sprintf(`
      <p>You have a new message from <strong>%s</strong> (%s):</p>
      <p><strong>Subject:</strong> %s</p>
      <p>%s</p>
    `, SafeText(name), SafeText(email), SafeText(subject), SafeText(message))
	return BuildSimpleHTML("New Message Received", body)
}
