package notifications

import (
	"bytes"
	"fmt"
	"html/template"
)

var authCodeTmpl = template.Must(template.New("auth_code").Parse(`<html>
  <body>
    <h2>Welcome to {{.App}}, {{.Name}}!</h2>
    <p>Your authentication code is:</p>
    <div style="font-size: 24px; font-weight: bold; margin: 20px 0; padding: 10px; background-color: #f5f5f5; border-radius: 5px; display: inline-block;">{{.Code}}</div>
    <p>Use this code with your email address to sign in to your student space.</p>
    <p><strong>Never share this code with anyone.</strong></p>
  </body>
</html>`))

var resultTmpl = template.Must(template.New("result").Parse(`<html>
  <body>
    <h2>Quiz submitted: {{.Quiz}}</h2>
    <p>Hi {{.Name}}, your answers were recorded.</p>
    <p>Score: <strong>{{.Score}} / {{.MaxScore}}</strong> ({{.Percentage}})</p>
  </body>
</html>`))

var paymentRejectedTmpl = template.Must(template.New("payment_rejected").Parse(`<html>
  <body>
    <h2>Payment not accepted</h2>
    <p>Hi {{.Name}}, your payment of {{.Amount}} ({{.Method}}) could not be verified and was removed.</p>
    <p>Please contact the administration if you think this is a mistake.</p>
  </body>
</html>`))

func render(t *template.Template, data interface{}) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

func AuthCodeEmail(app, name, email, code string) Message {
	return Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Your " + app + " authentication code",
		HTML: render(authCodeTmpl, struct{ App, Name, Code string }{
			App: app, Name: name, Code: code,
		}),
	}
}

func ResultEmail(name, email, quiz string, score, maxScore int, percentage float64) Message {
	return Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Your result for " + quiz,
		HTML: render(resultTmpl, struct {
			Name, Quiz, Percentage string
			Score, MaxScore        int
		}{
			Name: name, Quiz: quiz, Score: score, MaxScore: maxScore,
			Percentage: fmt.Sprintf("%.1f%%", percentage),
		}),
	}
}

func PaymentRejectedEmail(name, email, amount, method string) Message {
	return Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Update on your payment",
		HTML: render(paymentRejectedTmpl, struct{ Name, Amount, Method string }{
			Name: name, Amount: amount, Method: method,
		}),
	}
}
