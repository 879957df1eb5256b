package utils

import (
	"fmt"
	"time"
)

func SendSettlementReceivedEmail(to, payerName, amount, scopeName string, reference string, date time.Time) error {
	subject := fmt.Sprintf("💸 %s paid you back ₹%s", payerName, amount)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Payment Received</title>
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; margin: 0; color: #333; }
		.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; overflow: hidden; border-top: 5px solid #0a4d3c; }
		.header { background-color: #0a4d3c; color: #ffffff; text-align: center; padding: 18px 12px; }
		.header h1 { margin: 0; font-size: 18px; font-weight: 600; }
		.content { padding: 20px 18px; font-size: 14px; line-height: 1.6; color: #444; }
		.amount-box { background: #f2fdf6; border: 1px solid #bfe7cb; border-radius: 8px; padding: 12px 14px; margin: 16px 0; text-align: center; }
		.amount-box h3 { margin: 0; color: #0a4d3c; font-size: 16px; }
		.footer { background: #f6f6f6; text-align: center; padding: 14px; font-size: 12px; color: #777; }
	</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>Payment Received ✅</h1></div>
			<div class="content">
				<p>
					<b>%s</b> recorded a settlement payment of ₹<b>%s</b> to you in <b>%s</b>.
				</p>
				<div class="amount-box">
					<h3>₹%s received</h3>
					<p>Reference: %s</p>
					<p>Date: %s</p>
				</div>
				<p>Your balances in <b>Hisab</b> have been updated.</p>
			</div>
			<div class="footer">&copy; %d Hisab — settle up, stay friends.</div>
		</div>
	</body>
	</html>
	`, payerName, amount, scopeName, amount, reference, date.Format("Jan 2, 2006"), time.Now().Year())

	return SendEmail(to, subject, body)
}
