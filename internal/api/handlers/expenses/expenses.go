package expenses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"hisab/internal/api/handlers"
	"hisab/internal/ledger"
	"hisab/internal/repositories/sqlconnect"
	"hisab/pkg/utils"
)

type splitRequest struct {
	UserID int             `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
	Paid   bool            `json:"paid"`
}

type expenseRequest struct {
	GroupID      int             `json:"group_id"`
	PaidBy       int             `json:"paid_by"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Note         string          `json:"note"`
	SplitType    string          `json:"split_type"`
	Splits       []splitRequest  `json:"splits"`
	Participants []int           `json:"participants"`
}

// FUNC TO CREATE AN EXPENSE (GROUP OR PERSONAL)
func CreateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	var req expenseRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Description == "" {
		utils.WriteError(w, "description is required", http.StatusBadRequest)
		return
	}
	if err := handlers.ValidateSplitType(req.SplitType); err != nil {
		utils.WriteError(w, "split_type must be 'equal' or 'unequal'", http.StatusBadRequest)
		return
	}
	if err := handlers.ValidateCategory(req.Category); err != nil {
		utils.WriteError(w, "invalid category", http.StatusBadRequest)
		return
	}

	if req.PaidBy == 0 {
		req.PaidBy = userID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	participants := req.Participants

	if req.GroupID != 0 {
		var exists bool
		err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)", req.GroupID, userID).Scan(&exists)
		if err != nil {
			utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
			return
		}
		if !exists {
			utils.WriteError(w, "you are not a member of this group", http.StatusForbidden)
			return
		}

		memberIDs, err := sqlconnect.FetchGroupMemberIDs(ctx, req.GroupID)
		if err != nil {
			utils.WriteError(w, "failed to fetch group members", http.StatusInternalServerError)
			return
		}

		memberSet := make(map[int]bool, len(memberIDs))
		for _, id := range memberIDs {
			memberSet[id] = true
		}
		if !memberSet[req.PaidBy] {
			utils.WriteError(w, "payer is not a member of this group", http.StatusBadRequest)
			return
		}
		for _, id := range participants {
			if !memberSet[id] {
				utils.WriteError(w, "participant is not a member of this group", http.StatusBadRequest)
				return
			}
		}
		if len(participants) == 0 {
			participants = memberIDs
		}
	} else if len(participants) == 0 && len(req.Splits) == 0 {
		utils.WriteError(w, "personal expenses need participants or splits", http.StatusBadRequest)
		return
	}

	declared := make([]ledger.Split, 0, len(req.Splits))
	for _, s := range req.Splits {
		declared = append(declared, ledger.Split{UserID: s.UserID, Amount: s.Amount, Paid: s.Paid})
	}

	splits, err := ledger.Allocate(req.Amount, ledger.SplitType(req.SplitType), declared, participants)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	expense := ledger.Expense{
		GroupID:     req.GroupID,
		PaidBy:      req.PaidBy,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Note:        req.Note,
		SplitType:   ledger.SplitType(req.SplitType),
		Splits:      splits,
		CreatedBy:   userID,
	}
	if err := ledger.ValidateExpense(&expense); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}

	var groupID interface{}
	if req.GroupID != 0 {
		groupID = req.GroupID
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO expenses (group_id, paid_by, amount, description, category, note, split_type, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		groupID, req.PaidBy, req.Amount, req.Description, req.Category, req.Note, req.SplitType, userID,
		time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to create expense: %v", err)
		utils.WriteError(w, "failed to create expense", http.StatusInternalServerError)
		return
	}

	expenseID, _ := res.LastInsertId()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO expense_splits (expense_id, owed_by, amount, paid) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to prepare statement: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer stmt.Close()

	for _, s := range splits {
		if _, err := stmt.ExecContext(ctx, expenseID, s.UserID, s.Amount, s.Paid); err != nil {
			tx.Rollback()
			utils.Logger.Errorf("failed to save expense split: %v", err)
			utils.WriteError(w, "failed to save expense splits", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		utils.WriteError(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	expense.ID = int(expenseID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "expense created successfully",
		"data": map[string]interface{}{
			"expense_id": expenseID,
			"amount":     req.Amount,
			"splits":     splits,
		},
	})
}

// FUNC TO GET A SINGLE EXPENSE WITH ITS SPLITS
func GetExpenseByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	expenseID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	expense, err := sqlconnect.FetchExpenseByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch expense: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !expenseInvolves(expense, userID) {
		utils.WriteError(w, "forbidden: you are not part of this expense", http.StatusForbidden)
		return
	}

	utils.WriteJSON(w, http.StatusOK, "expense fetched successfully", expense)
}

// FUNC TO GET ALL EXPENSES OF A GROUP
func GetGroupExpensesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idStr := r.PathValue("id")
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var exists bool
	err = db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)", groupID, userID).Scan(&exists)
	if err != nil {
		utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
		return
	}
	if !exists {
		utils.WriteError(w, "you are not a member of this group", http.StatusForbidden)
		return
	}

	expenses, err := sqlconnect.FetchGroupExpenses(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch group expenses: %v", err)
		utils.WriteError(w, "failed to retrieve expenses", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status":   "success",
		"group_id": groupID,
		"count":    len(expenses),
		"data":     expenses,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// FUNC TO GET PERSONAL (1:1) EXPENSES WITH A FRIEND
func GetPersonalExpensesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	friendIDStr := r.PathValue("friendId")
	friendID, err := strconv.Atoi(friendIDStr)
	if err != nil {
		utils.WriteError(w, "invalid friend ID", http.StatusBadRequest)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	if friendID == userID {
		utils.WriteError(w, "friend ID cannot be your own ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	expenses, err := sqlconnect.FetchPairExpenses(ctx, userID, friendID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch personal expenses: %v", err)
		utils.WriteError(w, "failed to retrieve expenses", http.StatusInternalServerError)
		return
	}

	pairExpenses := make([]ledger.Expense, 0, len(expenses))
	for _, e := range expenses {
		if expenseInvolves(e, userID) && expenseInvolves(e, friendID) {
			pairExpenses = append(pairExpenses, e)
		}
	}

	settlements, err := sqlconnect.FetchPairSettlements(ctx, userID, friendID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch settlements: %v", err)
		utils.WriteError(w, "failed to retrieve settlements", http.StatusInternalServerError)
		return
	}

	balance := ledger.PairBalance(userID, friendID, expenses, settlements)

	response := map[string]interface{}{
		"status":  "success",
		"balance": balance,
		"count":   len(pairExpenses),
		"data":    pairExpenses,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// resolveReallocation recomputes an expense's splits for an update. A zero
// requested amount keeps the existing one and missing overrides fall back to
// the stored split type; the participant scope is the existing split set.
func resolveReallocation(existing ledger.Expense, amount decimal.Decimal, splitType string, declared []splitRequest) (decimal.Decimal, ledger.SplitType, []ledger.Split, error) {
	if amount.IsZero() {
		amount = existing.Amount
	}
	st := existing.SplitType
	if splitType != "" {
		st = ledger.SplitType(splitType)
	}

	decl := make([]ledger.Split, 0, len(declared))
	for _, s := range declared {
		decl = append(decl, ledger.Split{UserID: s.UserID, Amount: s.Amount, Paid: s.Paid})
	}

	participants := make([]int, 0, len(existing.Splits))
	for _, s := range existing.Splits {
		participants = append(participants, s.UserID)
	}

	splits, err := ledger.Allocate(amount, st, decl, participants)
	if err != nil {
		return decimal.Decimal{}, "", nil, err
	}
	return amount, st, splits, nil
}

// FUNC TO UPDATE AN EXPENSE (CREATOR ONLY)
func UpdateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	expenseID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	type request struct {
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Note        string          `json:"note"`
		Amount      decimal.Decimal `json:"amount"`
		SplitType   string          `json:"split_type"`
		Splits      []splitRequest  `json:"splits"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err = decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Category != "" {
		if err := handlers.ValidateCategory(req.Category); err != nil {
			utils.WriteError(w, "invalid category", http.StatusBadRequest)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	existing, err := sqlconnect.FetchExpenseByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if existing.CreatedBy != userID {
		utils.WriteError(w, "forbidden: only the creator can update this expense", http.StatusForbidden)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if req.Description != "" {
		if _, err := tx.ExecContext(ctx, "UPDATE expenses SET description = ? WHERE id = ?", req.Description, expenseID); err != nil {
			tx.Rollback()
			utils.WriteError(w, "failed to update expense", http.StatusInternalServerError)
			return
		}
	}
	if req.Category != "" {
		if _, err := tx.ExecContext(ctx, "UPDATE expenses SET category = ? WHERE id = ?", req.Category, expenseID); err != nil {
			tx.Rollback()
			utils.WriteError(w, "failed to update expense", http.StatusInternalServerError)
			return
		}
	}
	if req.Note != "" {
		if _, err := tx.ExecContext(ctx, "UPDATE expenses SET note = ? WHERE id = ?", req.Note, expenseID); err != nil {
			tx.Rollback()
			utils.WriteError(w, "failed to update expense", http.StatusInternalServerError)
			return
		}
	}

	// Touching the amount, the split type or the splits reallocates all of
	// them. A splits-only edit keeps the existing amount.
	if !req.Amount.IsZero() || req.SplitType != "" || len(req.Splits) > 0 {
		if req.SplitType != "" {
			if err := handlers.ValidateSplitType(req.SplitType); err != nil {
				tx.Rollback()
				utils.WriteError(w, "split_type must be 'equal' or 'unequal'", http.StatusBadRequest)
				return
			}
		}

		amount, splitType, splits, err := resolveReallocation(existing, req.Amount, req.SplitType, req.Splits)
		if err != nil {
			tx.Rollback()
			utils.WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if _, err := tx.ExecContext(ctx, "UPDATE expenses SET amount = ?, split_type = ? WHERE id = ?", amount, string(splitType), expenseID); err != nil {
			tx.Rollback()
			utils.WriteError(w, "failed to update expense", http.StatusInternalServerError)
			return
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expenseID); err != nil {
			tx.Rollback()
			utils.WriteError(w, "failed to update expense splits", http.StatusInternalServerError)
			return
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO expense_splits (expense_id, owed_by, amount, paid) VALUES (?, ?, ?, ?)`)
		if err != nil {
			tx.Rollback()
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		defer stmt.Close()

		for _, s := range splits {
			if _, err := stmt.ExecContext(ctx, expenseID, s.UserID, s.Amount, s.Paid); err != nil {
				tx.Rollback()
				utils.WriteError(w, "failed to update expense splits", http.StatusInternalServerError)
				return
			}
		}
	}

	if err := tx.Commit(); err != nil {
		utils.WriteError(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, "expense updated successfully", nil)
}

// FUNC TO DELETE AN EXPENSE (CREATOR ONLY)
func DeleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	expenseID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var createdBy int
	err = db.QueryRowContext(ctx, "SELECT created_by FROM expenses WHERE id = ?", expenseID).Scan(&createdBy)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if createdBy != userID {
		utils.WriteError(w, "forbidden: only the creator can delete this expense", http.StatusForbidden)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expenseID); err != nil {
		tx.Rollback()
		utils.WriteError(w, "failed to delete expense splits", http.StatusInternalServerError)
		return
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID); err != nil {
		tx.Rollback()
		utils.WriteError(w, "failed to delete expense", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		utils.WriteError(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, "expense deleted successfully", nil)
}

// FUNC TO MARK A SPLIT AS PAID
func MarkSplitPaidHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	expenseID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	expense, err := sqlconnect.FetchExpenseByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Only the payer or the debtor can mark the share as paid.
	type request struct {
		UserID int `json:"user_id"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.UserID == 0 {
		req.UserID = userID
	}
	if userID != expense.PaidBy && userID != req.UserID {
		utils.WriteError(w, "forbidden", http.StatusForbidden)
		return
	}

	res, err := db.ExecContext(ctx, "UPDATE expense_splits SET paid = TRUE WHERE expense_id = ? AND owed_by = ?", expenseID, req.UserID)
	if err != nil {
		utils.WriteError(w, "failed to update split", http.StatusInternalServerError)
		return
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		utils.WriteError(w, "split not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, "split marked as paid", nil)
}

func expenseInvolves(e ledger.Expense, userID int) bool {
	if e.PaidBy == userID || e.CreatedBy == userID {
		return true
	}
	for _, s := range e.Splits {
		if s.UserID == userID {
			return true
		}
	}
	return false
}
