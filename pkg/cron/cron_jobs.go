package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"hisab/internal/ledger"
	"hisab/internal/repositories/sqlconnect"
	"hisab/pkg/utils"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs every 6 hours — check expired invitations
	_, err := c.AddFunc("0 */6 * * *", func() {
		err := CheckAndUpdateExpiredInvitations(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to update expired invitations: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule invitation expiration job: %v", err)
	}

	// Runs daily at midnight — send reminders
	_, err = c.AddFunc("0 0 * * *", func() {
		err := SendReminderEmailsToDebtors(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send reminder emails: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule debtor reminder job: %v", err)
	}

	// Runs on the 1st of every month at 08:00 — spending digest
	_, err = c.AddFunc("0 8 1 * *", func() {
		err := SendMonthlySpendingDigests(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send spending digests: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule spending digest job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (invitation expiry every 6h, debtor reminders daily, spending digest monthly)")
	return c
}

// -------------------------------------------------------------
// Check and update expired group invitations
// -------------------------------------------------------------
func CheckAndUpdateExpiredInvitations(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE group_invitations 
		SET status = 'expired' 
		WHERE expires_at < ? AND status = 'pending'
	`, time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		tx.Rollback()
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if rowsAffected > 0 {
		utils.Logger.Infof("Updated %d expired invitations to status 'expired'", rowsAffected)
	}
	return nil
}

// sendAll runs every job concurrently and waits for all of them. Failures
// are logged per job so a run never blocks on a slow or broken mailer.
func sendAll(jobs []func() error) {
	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(job func() error) {
			defer wg.Done()
			if err := job(); err != nil {
				utils.Logger.Error(err)
			}
		}(job)
	}
	wg.Wait()
}

// -------------------------------------------------------------
// Send daily reminders to debtors from the netted group balances
// -------------------------------------------------------------
func SendReminderEmailsToDebtors(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, "SELECT id, name FROM groups")
	if err != nil {
		return err
	}
	defer rows.Close()

	type groupRow struct {
		ID   int
		Name string
	}
	var groupRows []groupRow
	for rows.Next() {
		var g groupRow
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			utils.Logger.Errorf("Failed to scan group row: %v", err)
			continue
		}
		groupRows = append(groupRows, g)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var jobs []func() error

	for _, g := range groupRows {
		memberIDs, err := sqlconnect.FetchGroupMemberIDs(ctx, g.ID)
		if err != nil {
			utils.Logger.Errorf("Failed to fetch members of group %d: %v", g.ID, err)
			continue
		}
		expenses, err := sqlconnect.FetchGroupExpenses(ctx, g.ID)
		if err != nil {
			utils.Logger.Errorf("Failed to fetch expenses of group %d: %v", g.ID, err)
			continue
		}
		settlements, err := sqlconnect.FetchGroupSettlements(ctx, g.ID)
		if err != nil {
			utils.Logger.Errorf("Failed to fetch settlements of group %d: %v", g.ID, err)
			continue
		}

		for _, balance := range ledger.GroupBalances(memberIDs, expenses, settlements) {
			if len(balance.Owes) == 0 {
				continue
			}

			var debtorName, debtorEmail string
			err = db.QueryRowContext(ctx, "SELECT name, email FROM users WHERE id = ?", balance.UserID).Scan(&debtorName, &debtorEmail)
			if err != nil {
				utils.Logger.Errorf("Failed to fetch debtor %d: %v", balance.UserID, err)
				continue
			}

			for _, debt := range balance.Owes {
				var creditorName string
				err = db.QueryRowContext(ctx, "SELECT name FROM users WHERE id = ?", debt.UserID).Scan(&creditorName)
				if err != nil {
					utils.Logger.Errorf("Failed to fetch creditor %d: %v", debt.UserID, err)
					continue
				}

				to, debtor, creditor := debtorEmail, debtorName, creditorName
				amount, groupName := debt.Amount.StringFixed(2), g.Name
				jobs = append(jobs, func() error {
					if err := utils.SendDebtorReminderEmail(to, debtor, creditor, amount, groupName); err != nil {
						return fmt.Errorf("failed to send reminder email to %s: %v", to, err)
					}

					utils.Logger.Infof("📧 Sent reminder to %s (%s) — ₹%s owed to %s in '%s'",
						debtor, to, amount, creditor, groupName)
					return nil
				})
			}
		}
	}

	sendAll(jobs)

	utils.Logger.Info("✅ Finished sending all debtor reminder emails.")
	return nil
}

// -------------------------------------------------------------
// Send monthly spending digests to every user
// -------------------------------------------------------------
func SendMonthlySpendingDigests(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, "SELECT id, name, email FROM users")
	if err != nil {
		return err
	}
	defer rows.Close()

	type userRow struct {
		ID    int
		Name  string
		Email string
	}
	var users []userRow
	for rows.Next() {
		var u userRow
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			utils.Logger.Errorf("Failed to scan user row: %v", err)
			continue
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	lastMonth := time.Now().AddDate(0, -1, 0)

	var jobs []func() error

	for _, u := range users {
		expenses, err := sqlconnect.FetchUserExpenses(ctx, u.ID)
		if err != nil {
			utils.Logger.Errorf("Failed to fetch expenses for user %d: %v", u.ID, err)
			continue
		}
		if len(expenses) == 0 {
			continue
		}

		months := ledger.MonthlySpending(u.ID, expenses, lastMonth.Year())
		monthTotal := months[int(lastMonth.Month())-1].Total
		yearTotal := ledger.TotalSpent(u.ID, expenses, lastMonth.Year())

		to, name := u.Email, u.Name
		monthName := lastMonth.Format("January 2006")
		month, year := monthTotal.StringFixed(2), yearTotal.StringFixed(2)
		jobs = append(jobs, func() error {
			if err := utils.SendSpendingDigestEmail(to, name, monthName, month, year); err != nil {
				return fmt.Errorf("failed to send digest email to %s: %v", to, err)
			}
			return nil
		})
	}

	sendAll(jobs)

	utils.Logger.Info("✅ Finished sending monthly spending digests.")
	return nil
}
