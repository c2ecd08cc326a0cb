package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends caretaker notifications via Amazon SES. When no sender
// address is configured the service runs disabled and every send is a logged
// no-op, so the relay works without AWS credentials.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates the email service. An empty fromEmail yields a
// disabled service rather than an error.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendEmergencyAlert notifies a caretaker that the emergency button was
// pressed on an account they look after.
func (s *EmailService) SendEmergencyAlert(ctx context.Context, toEmail, accountName, phrase, when string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): emergency alert to %s", toEmail)
		return nil
	}

	if accountName == "" {
		accountName = "the account you look after"
	}

	subject := fmt.Sprintf("Emergency alert from %s", accountName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="background-color: #d9534f; color: white; padding: 20px; text-align: center;">
			<h1>Emergency Button Pressed</h1>
		</div>
		<div style="background-color: #f9f9f9; padding: 30px;">
			<p>The emergency button was pressed by <strong>%s</strong> at %s.</p>
			<p>Message spoken: <strong>%s</strong></p>
			<p>Please check on them as soon as possible.</p>
		</div>
		<p style="text-align: center; font-size: 12px; color: #666;">This is an automated alert from CareVoice. Please do not reply.</p>
	</div>
</body>
</html>
`, accountName, when, phrase)

	textBody := fmt.Sprintf(`Emergency button pressed by %s at %s.

Message spoken: %s

Please check on them as soon as possible.

---
This is an automated alert from CareVoice. Please do not reply.
`, accountName, when, phrase)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendInvitationEmail invites an email address to create a caretaker account.
func (s *EmailService) SendInvitationEmail(ctx context.Context, toEmail, inviterName, code string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): invitation to %s", toEmail)
		return nil
	}

	if inviterName == "" {
		inviterName = "A CareVoice user"
	}
	signupLink := fmt.Sprintf("%s/signup?invite=%s", s.appBaseURL, code)

	subject := fmt.Sprintf("%s invited you to CareVoice", inviterName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="background-color: #4a90e2; color: white; padding: 20px; text-align: center;">
			<h1>You're Invited to CareVoice</h1>
		</div>
		<div style="background-color: #f9f9f9; padding: 30px;">
			<p>%s invited you to be a caretaker on their CareVoice account.</p>
			<p>As a caretaker you can see their trigger history, manage their
			medicine list, and receive emergency alerts.</p>
			<p style="text-align: center;">
				<a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none;">Create Your Account</a>
			</p>
			<p>Or use this invitation code during signup:</p>
			<p style="font-size: 18px; text-align: center;"><strong>%s</strong></p>
			<p><strong>This invitation expires in 7 days.</strong></p>
		</div>
		<p style="text-align: center; font-size: 12px; color: #666;">This is an automated email from CareVoice. Please do not reply.</p>
	</div>
</body>
</html>
`, inviterName, signupLink, code)

	textBody := fmt.Sprintf(`%s invited you to be a caretaker on their CareVoice account.

As a caretaker you can see their trigger history, manage their medicine list,
and receive emergency alerts.

Create your account: %s

Or use this invitation code during signup: %s

This invitation expires in 7 days.

---
This is an automated email from CareVoice. Please do not reply.
`, inviterName, signupLink, code)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendWelcomeEmail greets a newly created account.
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	if toName == "" {
		toName = "there"
	}

	subject := "Welcome to CareVoice"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="background-color: #4a90e2; color: white; padding: 20px; text-align: center;">
			<h1>Welcome to CareVoice</h1>
		</div>
		<div style="background-color: #f9f9f9; padding: 30px;">
			<p>Hi %s,</p>
			<p>Your CareVoice account is ready. Here's what you can do next:</p>
			<ul>
				<li>Register the devices in your home</li>
				<li>Add caretakers who should see your activity</li>
				<li>Keep your medicine list up to date</li>
			</ul>
			<p style="text-align: center;">
				<a href="%s/login" style="display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none;">Get Started</a>
			</p>
		</div>
		<p style="text-align: center; font-size: 12px; color: #666;">This is an automated email from CareVoice. Please do not reply.</p>
	</div>
</body>
</html>
`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Your CareVoice account is ready. Here's what you can do next:
- Register the devices in your home
- Add caretakers who should see your activity
- Keep your medicine list up to date

Get started: %s/login

---
This is an automated email from CareVoice. Please do not reply.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] Sending email: from=%s, to=%s, subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
