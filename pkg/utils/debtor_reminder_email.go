package utils

import (
	"fmt"
	"time"
)

func SendDebtorReminderEmail(to, debtorName, creditorName, amount, groupName string) error {
	subject := fmt.Sprintf("⏰ Reminder: you owe %s ₹%s", creditorName, amount)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Settlement Reminder</title>
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; margin: 0; color: #333; }
		.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; overflow: hidden; border-top: 5px solid #b45309; }
		.header { background-color: #b45309; color: #ffffff; text-align: center; padding: 18px 12px; }
		.header h1 { margin: 0; font-size: 18px; font-weight: 600; }
		.content { padding: 20px 18px; font-size: 14px; line-height: 1.6; color: #444; }
		.amount-box { background: #fff8ef; border: 1px solid #f0d9b5; border-radius: 8px; padding: 12px 14px; margin: 16px 0; text-align: center; }
		.amount-box h3 { margin: 0; color: #b45309; font-size: 16px; }
		.footer { background: #f6f6f6; text-align: center; padding: 14px; font-size: 12px; color: #777; }
	</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>Friendly Reminder 👋</h1></div>
			<div class="content">
				<p>Hi <b>%s</b>,</p>
				<p>
					You have an outstanding balance of ₹<b>%s</b> owed to <b>%s</b>
					in the group <b>%s</b>.
				</p>
				<div class="amount-box">
					<h3>₹%s outstanding</h3>
				</div>
				<p>Open <b>Hisab</b> and record a settlement once you have paid them back.</p>
			</div>
			<div class="footer">&copy; %d Hisab — settle up, stay friends.</div>
		</div>
	</body>
	</html>
	`, debtorName, amount, creditorName, groupName, amount, time.Now().Year())

	return SendEmail(to, subject, body)
}
