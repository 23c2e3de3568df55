package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/context8/context8-server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendVerificationCode 发送邮箱验证码
func (s *Service) SendVerificationCode(to, code string) error {
	subject := "Verify your email - Context8"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">Verify Your Email</h2>
        <p>Hi,</p>
        <p>You are registering a Context8 account. Your verification code is:</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">
            %s
        </div>
        <p>The code expires in 10 minutes.</p>
        <p>If you did not request this, please ignore this email.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
`, code)

	return s.sendHTML(to, subject, body)
}

// SendPaymentSubmittedAdmin 通知管理员有新的支付待审核
func (s *Service) SendPaymentSubmittedAdmin(to, userEmail, plan, chain, stablecoin, txHash, explorerURL, panelURL string, amount float64) error {
	subject := fmt.Sprintf("New payment submission - %s ($%.2f)", userEmail, amount)
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">New Payment Submission</h2>
        <p>A user submitted a payment that needs manual verification.</p>
        <table style="border-collapse: collapse; width: 100%%;">
            <tr><td style="padding: 6px 12px; color: #6b7280;">User</td><td style="padding: 6px 12px;">%s</td></tr>
            <tr><td style="padding: 6px 12px; color: #6b7280;">Plan</td><td style="padding: 6px 12px;">%s</td></tr>
            <tr><td style="padding: 6px 12px; color: #6b7280;">Amount</td><td style="padding: 6px 12px;">$%.2f %s</td></tr>
            <tr><td style="padding: 6px 12px; color: #6b7280;">Chain</td><td style="padding: 6px 12px;">%s</td></tr>
            <tr><td style="padding: 6px 12px; color: #6b7280;">Tx Hash</td><td style="padding: 6px 12px; word-break: break-all;"><a href="%s">%s</a></td></tr>
        </table>
        <div style="text-align: center; margin: 30px 0;">
            <a href="%s" style="background-color: #2563eb; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Open Admin Panel</a>
        </div>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
`, userEmail, plan, amount, strings.ToUpper(stablecoin), chain, explorerURL, txHash, panelURL)

	return s.sendHTML(to, subject, body)
}

// SendPaymentVerified 通知用户支付已确认、订阅已开通
func (s *Service) SendPaymentVerified(to, plan, endDate string) error {
	subject := "Payment verified - your Context8 subscription is active"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #16a34a;">Payment Verified</h2>
        <p>Hi,</p>
        <p>Your payment has been verified and your <strong>%s</strong> subscription is now active.</p>
        <p>Your subscription is valid until <strong>%s</strong>.</p>
        <p>Thank you for supporting Context8!</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
`, plan, endDate)

	return s.sendHTML(to, subject, body)
}

// SendPaymentRejected 通知用户支付被拒绝（附管理员备注）
func (s *Service) SendPaymentRejected(to, txHash, notes string) error {
	subject := "Payment could not be verified - Context8"
	notesBlock := ""
	if notes != "" {
		notesBlock = fmt.Sprintf(`<p>Reason from the reviewer:</p>
        <p style="background-color: #f3f4f6; padding: 10px;">%s</p>`, notes)
	}
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #dc2626;">Payment Rejected</h2>
        <p>Hi,</p>
        <p>We could not verify your payment submission:</p>
        <p style="background-color: #f3f4f6; padding: 10px; word-break: break-all;">%s</p>
        %s
        <p>If you believe this is a mistake, please reply with the correct transaction hash or contact support.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
`, txHash, notesBlock)

	return s.sendHTML(to, subject, body)
}

// SendExpiryReminder 订阅即将到期提醒
func (s *Service) SendExpiryReminder(to, plan string, daysRemaining int, renewURL string) error {
	subject := fmt.Sprintf("Your Context8 subscription expires in %d day(s)", daysRemaining)
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #d97706;">Subscription Expiring Soon</h2>
        <p>Hi,</p>
        <p>Your <strong>%s</strong> subscription will expire in <strong>%d day(s)</strong>.</p>
        <p>Renew now to keep uninterrupted access to real-time market data.</p>
        <div style="text-align: center; margin: 30px 0;">
            <a href="%s" style="background-color: #2563eb; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Renew Subscription</a>
        </div>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
`, plan, daysRemaining, renewURL)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
