package utils

import (
	"fmt"
	"os"
	"time"
)

func SendGroupInviteEmail(to, inviterName, groupName, token string, expiresAt time.Time) error {
	subject := fmt.Sprintf("📩 %s invited you to join %s on Hisab", inviterName, groupName)

	acceptURL := fmt.Sprintf("%s/invitations/accept?token=%s", os.Getenv("APP_BASE_URL"), token)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Group Invitation</title>
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; margin: 0; color: #333; }
		.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; overflow: hidden; border-top: 5px solid #0a4d3c; }
		.header { background-color: #0a4d3c; color: #ffffff; text-align: center; padding: 18px 12px; }
		.header h1 { margin: 0; font-size: 18px; font-weight: 600; }
		.content { padding: 20px 18px; font-size: 14px; line-height: 1.6; color: #444; }
		.btn { display: inline-block; background: #0a4d3c; color: #ffffff !important; text-decoration: none; padding: 10px 22px; border-radius: 8px; font-weight: 600; margin: 14px 0; }
		.footer { background: #f6f6f6; text-align: center; padding: 14px; font-size: 12px; color: #777; }
	</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>You're Invited 🎉</h1></div>
			<div class="content">
				<p>
					<b>%s</b> has invited you to join the group <b>%s</b> on <b>Hisab</b>,
					where you can split expenses and keep track of who owes whom.
				</p>
				<p style="text-align:center;">
					<a class="btn" href="%s">Accept Invitation</a>
				</p>
				<p>This invitation expires on <b>%s</b>. If you were not expecting it, you can safely ignore this email.</p>
			</div>
			<div class="footer">&copy; %d Hisab — settle up, stay friends.</div>
		</div>
	</body>
	</html>
	`, inviterName, groupName, acceptURL, expiresAt.Format("Jan 2, 2006 at 3:04 PM"), time.Now().Year())

	return SendEmail(to, subject, body)
}
