package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/workzen/hr-service/internal/dto"
)

// Service sends one email per consumed broker event. Unknown events
// are logged and dropped so an old worker never wedges the consumer
// group on a new event type.
type Service struct {
	host     string
	port     string
	user     string
	password string
	from     string
	fromName string
}

func NewService(host, port, user, password, from, fromName string) *Service {
	return &Service{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		fromName: fromName,
	}
}

type mailContent struct {
	subject string
	tmpl    *template.Template
}

var contentByEvent = map[string]mailContent{
	dto.EventOnboardingInvite: {
		subject: "Welcome to WorkZen — complete your onboarding",
		tmpl: template.Must(template.New("invite").Parse(`
<p>Hi {{.name}},</p>
<p>Congratulations on your offer for the <b>{{.position}}</b> position.</p>
<p>Please complete your onboarding here: <a href="{{.link}}">{{.link}}</a></p>
<p>The link stays valid for 7 days.</p>`)),
	},
	dto.EventOnboardingApproved: {
		subject: "Your WorkZen account is ready",
		tmpl: template.Must(template.New("approved").Parse(`
<p>Hi {{.name}},</p>
<p>Your onboarding has been approved. Your employee ID is <b>{{.employee_id}}</b>.</p>
<p>Sign in at <a href="{{.link}}">{{.link}}</a> with:</p>
<p>Email: {{.email}}<br>Temporary password: <b>{{.password}}</b></p>
<p>Please change the password after your first login.</p>`)),
	},
	dto.EventOnboardingChanges: {
		subject: "Your onboarding needs changes",
		tmpl: template.Must(template.New("changes").Parse(`
<p>Hi {{.name}},</p>
<p>HR has reviewed your onboarding and requested some changes:</p>
<blockquote>{{.comments}}</blockquote>
<p>Update your details here: <a href="{{.link}}">{{.link}}</a></p>`)),
	},
	dto.EventOnboardingRejected: {
		subject: "Update on your WorkZen onboarding",
		tmpl: template.Must(template.New("rejected").Parse(`
<p>Hi {{.name}},</p>
<p>We are sorry to inform you that your onboarding was not approved.</p>
{{if .reason}}<p>Reason: {{.reason}}</p>{{end}}`)),
	},
	dto.EventAuthOTP: {
		subject: "Your WorkZen verification code",
		tmpl: template.Must(template.New("otp").Parse(`
<p>Your verification code is <b>{{.otp}}</b>.</p>
<p>It expires in 10 minutes. If you did not request it, ignore this email.</p>`)),
	},
	dto.EventAuthOTPVerified: {
		subject: "Welcome to WorkZen",
		tmpl: template.Must(template.New("verified").Parse(`
<p>Hi {{.name}},</p>
<p>Your email has been verified and your account is now active.</p>`)),
	},
	dto.EventAuthResetPassword: {
		subject: "Reset your WorkZen password",
		tmpl: template.Must(template.New("reset").Parse(`
<p>Hi {{.name}},</p>
<p>Reset your password here: <a href="{{.link}}">{{.link}}</a></p>
<p>The link is valid for 24 hours. If you did not request it, ignore this email.</p>`)),
	},
}

func (s *Service) Send(event dto.MailEvent) error {
	content, ok := contentByEvent[event.Event]
	if !ok {
		log.Printf("[MAIL] unknown event %q, dropping", event.Event)
		return nil
	}

	var buf bytes.Buffer
	if err := content.tmpl.Execute(&buf, event.Data); err != nil {
		return err
	}

	fromHeader := fmt.Sprintf("%s <%s>", s.fromName, s.from)
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", event.To),
		fmt.Sprintf("Subject: %s", content.subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		buf.String(),
	}, "\r\n")

	log.Printf("[MAIL] smtp sending event=%s to=%s via=%s", event.Event, event.To, s.addr())

	if err := s.sendSMTPWithTimeout(event.To, []byte(msg)); err != nil {
		return err
	}

	log.Printf("[MAIL] sent event=%s to=%s", event.Event, event.To)
	return nil
}

func (s *Service) addr() string {
	return net.JoinHostPort(s.host, s.port)
}

func (s *Service) sendSMTPWithTimeout(to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", s.addr(), 8*time.Second)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return err
		}
	}
	if s.user != "" {
		auth := smtp.PlainAuth("", s.user, s.password, s.host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(s.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
