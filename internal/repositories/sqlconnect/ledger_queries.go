package sqlconnect

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hisab/internal/ledger"
	"hisab/internal/models"
)

const mysqlTimeLayout = "2006-01-02 15:04:05"

func parseDBTime(raw sql.NullString) time.Time {
	if !raw.Valid {
		return time.Time{}
	}
	t, err := time.Parse(mysqlTimeLayout, raw.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// The models structs are the row shapes scanned from MySQL; the ledger
// package never sees NULLs or DB time strings.

func expenseFromRow(row models.Expense) ledger.Expense {
	return ledger.Expense{
		ID:          row.ID,
		GroupID:     row.GroupID,
		PaidBy:      row.PaidBy,
		Amount:      row.Amount,
		Description: row.Description,
		Category:    row.Category,
		Note:        row.Note,
		SplitType:   ledger.SplitType(row.SplitType),
		CreatedBy:   row.CreatedBy,
		CreatedAt:   parseDBTime(row.CreatedAt),
	}
}

func splitFromRow(row models.ExpenseSplit) ledger.Split {
	return ledger.Split{UserID: row.OwedBy, Amount: row.Amount, Paid: row.Paid}
}

func settlementFromRow(row models.Settlement) ledger.Settlement {
	return ledger.Settlement{
		ID:               row.ID,
		GroupID:          row.GroupID,
		PaidBy:           row.PaidBy,
		ReceivedBy:       row.ReceivedBy,
		Amount:           row.Amount,
		Description:      row.Description,
		Note:             row.Note,
		RelatedExpenseID: row.RelatedExpenseID,
		CreatedAt:        parseDBTime(row.CreatedAt),
	}
}

func scanExpenses(rows *sql.Rows) ([]ledger.Expense, error) {
	var expenses []ledger.Expense
	for rows.Next() {
		var row models.Expense
		err := rows.Scan(&row.ID, &row.GroupID, &row.PaidBy, &row.Amount, &row.Description, &row.Category, &row.Note, &row.SplitType, &row.CreatedBy, &row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, expenseFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("expense rows error: %w", err)
	}
	return expenses, nil
}

func attachSplits(ctx context.Context, expenses []ledger.Expense) ([]ledger.Expense, error) {
	if len(expenses) == 0 {
		return expenses, nil
	}

	byID := make(map[int]int, len(expenses))
	args := make([]interface{}, 0, len(expenses))
	placeholders := ""
	for i, e := range expenses {
		byID[e.ID] = i
		args = append(args, e.ID)
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
	}

	query := fmt.Sprintf("SELECT expense_id, owed_by, amount, paid FROM expense_splits WHERE expense_id IN (%s)", placeholders)
	rows, err := DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row models.ExpenseSplit
		if err := rows.Scan(&row.ExpenseID, &row.OwedBy, &row.Amount, &row.Paid); err != nil {
			return nil, fmt.Errorf("failed to scan split row: %w", err)
		}
		if i, ok := byID[row.ExpenseID]; ok {
			expenses[i].Splits = append(expenses[i].Splits, splitFromRow(row))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("split rows error: %w", err)
	}
	return expenses, nil
}

func FetchGroupExpenses(ctx context.Context, groupID int) ([]ledger.Expense, error) {
	query := `SELECT id, COALESCE(group_id, 0), paid_by, amount, description, COALESCE(category, ''), COALESCE(note, ''), split_type, created_by, created_at
		FROM expenses WHERE group_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, err
	}
	return attachSplits(ctx, expenses)
}

// FetchPairExpenses returns personal expenses that involve either of the two
// users. Exact pair filtering happens in the ledger package.
func FetchPairExpenses(ctx context.Context, userX, userY int) ([]ledger.Expense, error) {
	query := `SELECT DISTINCT e.id, COALESCE(e.group_id, 0), e.paid_by, e.amount, e.description, COALESCE(e.category, ''), COALESCE(e.note, ''), e.split_type, e.created_by, e.created_at
		FROM expenses e
		LEFT JOIN expense_splits es ON es.expense_id = e.id
		WHERE COALESCE(e.group_id, 0) = 0 AND (e.paid_by IN (?, ?) OR es.owed_by IN (?, ?))
		ORDER BY e.created_at DESC, e.id DESC`
	rows, err := DB.QueryContext(ctx, query, userX, userY, userX, userY)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch personal expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, err
	}
	return attachSplits(ctx, expenses)
}

// FetchUserExpenses returns every expense the user appears in, as payer or as
// a split participant, across all groups and personal entries.
func FetchUserExpenses(ctx context.Context, userID int) ([]ledger.Expense, error) {
	query := `SELECT DISTINCT e.id, COALESCE(e.group_id, 0), e.paid_by, e.amount, e.description, COALESCE(e.category, ''), COALESCE(e.note, ''), e.split_type, e.created_by, e.created_at
		FROM expenses e
		LEFT JOIN expense_splits es ON es.expense_id = e.id
		WHERE e.paid_by = ? OR es.owed_by = ?
		ORDER BY e.created_at DESC, e.id DESC`
	rows, err := DB.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, err
	}
	return attachSplits(ctx, expenses)
}

func FetchExpenseByID(ctx context.Context, expenseID int) (ledger.Expense, error) {
	var row models.Expense
	query := `SELECT id, COALESCE(group_id, 0), paid_by, amount, description, COALESCE(category, ''), COALESCE(note, ''), split_type, created_by, created_at
		FROM expenses WHERE id = ?`
	err := DB.QueryRowContext(ctx, query, expenseID).Scan(&row.ID, &row.GroupID, &row.PaidBy, &row.Amount, &row.Description, &row.Category, &row.Note, &row.SplitType, &row.CreatedBy, &row.CreatedAt)
	if err != nil {
		return ledger.Expense{}, err
	}

	expenses, err := attachSplits(ctx, []ledger.Expense{expenseFromRow(row)})
	if err != nil {
		return ledger.Expense{}, err
	}
	return expenses[0], nil
}

func scanSettlements(rows *sql.Rows) ([]ledger.Settlement, error) {
	var settlements []ledger.Settlement
	for rows.Next() {
		var row models.Settlement
		err := rows.Scan(&row.ID, &row.GroupID, &row.PaidBy, &row.ReceivedBy, &row.Amount, &row.Description, &row.Note, &row.RelatedExpenseID, &row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement row: %w", err)
		}
		settlements = append(settlements, settlementFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("settlement rows error: %w", err)
	}
	return settlements, nil
}

func FetchGroupSettlements(ctx context.Context, groupID int) ([]ledger.Settlement, error) {
	query := `SELECT id, COALESCE(group_id, 0), paid_by, received_by, amount, COALESCE(description, ''), COALESCE(note, ''), COALESCE(related_expense_id, 0), created_at
		FROM settlements WHERE group_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group settlements: %w", err)
	}
	defer rows.Close()

	return scanSettlements(rows)
}

func FetchPairSettlements(ctx context.Context, userX, userY int) ([]ledger.Settlement, error) {
	query := `SELECT id, COALESCE(group_id, 0), paid_by, received_by, amount, COALESCE(description, ''), COALESCE(note, ''), COALESCE(related_expense_id, 0), created_at
		FROM settlements
		WHERE COALESCE(group_id, 0) = 0 AND ((paid_by = ? AND received_by = ?) OR (paid_by = ? AND received_by = ?))
		ORDER BY created_at DESC, id DESC`
	rows, err := DB.QueryContext(ctx, query, userX, userY, userY, userX)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settlements: %w", err)
	}
	defer rows.Close()

	return scanSettlements(rows)
}

// FetchUserPairSettlements returns all personal settlements the user is part
// of, in either direction, for dashboard balance listings.
func FetchUserPairSettlements(ctx context.Context, userID int) ([]ledger.Settlement, error) {
	query := `SELECT id, COALESCE(group_id, 0), paid_by, received_by, amount, COALESCE(description, ''), COALESCE(note, ''), COALESCE(related_expense_id, 0), created_at
		FROM settlements
		WHERE COALESCE(group_id, 0) = 0 AND (paid_by = ? OR received_by = ?)
		ORDER BY created_at DESC, id DESC`
	rows, err := DB.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settlements: %w", err)
	}
	defer rows.Close()

	return scanSettlements(rows)
}

func FetchGroupMemberIDs(ctx context.Context, groupID int) ([]int, error) {
	rows, err := DB.QueryContext(ctx, "SELECT user_id FROM group_members WHERE group_id = ? ORDER BY joined_at ASC, id ASC", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group members: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("member rows error: %w", err)
	}
	return ids, nil
}
