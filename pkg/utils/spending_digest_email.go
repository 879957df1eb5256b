package utils

import (
	"fmt"
	"time"
)

func SendSpendingDigestEmail(to, name, monthName, monthTotal, yearTotal string) error {
	subject := fmt.Sprintf("📊 Your %s spending summary on Hisab", monthName)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Spending Summary</title>
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; margin: 0; color: #333; }
		.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; overflow: hidden; border-top: 5px solid #0a4d3c; }
		.header { background-color: #0a4d3c; color: #ffffff; text-align: center; padding: 18px 12px; }
		.header h1 { margin: 0; font-size: 18px; font-weight: 600; }
		.content { padding: 20px 18px; font-size: 14px; line-height: 1.6; color: #444; }
		.stat-row { display: block; background: #f2fdf6; border: 1px solid #bfe7cb; border-radius: 8px; padding: 12px 14px; margin: 10px 0; }
		.stat-row b { color: #0a4d3c; }
		.footer { background: #f6f6f6; text-align: center; padding: 14px; font-size: 12px; color: #777; }
	</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>Monthly Spending Digest</h1></div>
			<div class="content">
				<p>Hi <b>%s</b>,</p>
				<p>Here is how your shared spending looked in <b>%s</b>:</p>
				<div class="stat-row">Your share last month: <b>₹%s</b></div>
				<div class="stat-row">Your share this year: <b>₹%s</b></div>
				<p>Open <b>Hisab</b> for the month-by-month breakdown and your current balances.</p>
			</div>
			<div class="footer">&copy; %d Hisab — settle up, stay friends.</div>
		</div>
	</body>
	</html>
	`, name, monthName, monthTotal, yearTotal, time.Now().Year())

	return SendEmail(to, subject, body)
}
