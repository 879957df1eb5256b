package settlements

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hisab/internal/ledger"
	"hisab/internal/models"
	"hisab/internal/repositories/sqlconnect"
	"hisab/pkg/utils"
)

// FUNC TO RECORD A SETTLEMENT PAYMENT
func CreateSettlementHandler(w http.ResponseWriter, r *http.Request) {
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

	type request struct {
		GroupID          int             `json:"group_id"`
		ReceivedBy       int             `json:"received_by"`
		Amount           decimal.Decimal `json:"amount"`
		Description      string          `json:"description"`
		Note             string          `json:"note"`
		RelatedExpenseID int             `json:"related_expense_id"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	settlement := ledger.Settlement{
		GroupID:          req.GroupID,
		PaidBy:           userID,
		ReceivedBy:       req.ReceivedBy,
		Amount:           req.Amount,
		Description:      req.Description,
		Note:             req.Note,
		RelatedExpenseID: req.RelatedExpenseID,
	}
	if err := ledger.ValidateSettlement(&settlement); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var receiverName, receiverEmail string
	err := db.QueryRowContext(ctx, "SELECT name, email FROM users WHERE id = ?", req.ReceivedBy).Scan(&receiverName, &receiverEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "receiver not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	scopeName := "a personal ledger"
	if req.GroupID != 0 {
		var groupName string
		err = db.QueryRowContext(ctx, `
			SELECT g.name FROM groups g
			JOIN group_members gm ON gm.group_id = g.id AND gm.user_id = ?
			WHERE g.id = ?
		`, userID, req.GroupID).Scan(&groupName)
		if err != nil {
			if err == sql.ErrNoRows {
				utils.WriteError(w, "group not found or you are not a member", http.StatusForbidden)
				return
			}
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}

		var receiverIsMember bool
		err = db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)", req.GroupID, req.ReceivedBy).Scan(&receiverIsMember)
		if err != nil || !receiverIsMember {
			utils.WriteError(w, "receiver is not a member of this group", http.StatusBadRequest)
			return
		}
		scopeName = groupName
	}

	if req.RelatedExpenseID != 0 {
		var payerOfExpense int
		err = db.QueryRowContext(ctx, "SELECT paid_by FROM expenses WHERE id = ?", req.RelatedExpenseID).Scan(&payerOfExpense)
		if err != nil {
			if err == sql.ErrNoRows {
				utils.WriteError(w, "related expense not found", http.StatusNotFound)
				return
			}
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if payerOfExpense != req.ReceivedBy {
			utils.WriteError(w, "related expense was not paid by the receiver", http.StatusBadRequest)
			return
		}
	}

	var groupID interface{}
	if req.GroupID != 0 {
		groupID = req.GroupID
	}
	var relatedExpenseID interface{}
	if req.RelatedExpenseID != 0 {
		relatedExpenseID = req.RelatedExpenseID
	}

	createdAt := time.Now().UTC()
	record := models.Settlement{
		GroupID:          req.GroupID,
		PaidBy:           userID,
		ReceivedBy:       req.ReceivedBy,
		Amount:           req.Amount,
		Description:      req.Description,
		Note:             req.Note,
		RelatedExpenseID: req.RelatedExpenseID,
		Reference:        uuid.NewString(),
		CreatedAt:        sql.NullString{String: createdAt.Format("2006-01-02 15:04:05"), Valid: true},
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO settlements (group_id, paid_by, received_by, amount, description, note, related_expense_id, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		groupID, record.PaidBy, record.ReceivedBy, record.Amount, record.Description, record.Note, relatedExpenseID,
		record.Reference, record.CreatedAt.String)
	if err != nil {
		utils.Logger.Errorf("failed to record settlement: %v", err)
		utils.WriteError(w, "failed to record settlement", http.StatusInternalServerError)
		return
	}

	settlementID, _ := res.LastInsertId()
	record.ID = int(settlementID)

	payerName, _ := r.Context().Value(utils.ContextKey("username")).(string)

	go func(to, payer, amount, scope, ref string, date time.Time) {
		if err := utils.SendSettlementReceivedEmail(to, payer, amount, scope, ref, date); err != nil {
			utils.Logger.Errorf("failed to send settlement email to %s: %v", to, err)
		}
	}(receiverEmail, payerName, record.Amount.StringFixed(2), scopeName, record.Reference, createdAt)

	utils.WriteJSON(w, http.StatusCreated, "settlement recorded successfully", record)
}

// FUNC TO LIST SETTLEMENTS OF A GROUP
func GetGroupSettlementsHandler(w http.ResponseWriter, r *http.Request) {
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

	settlements, err := sqlconnect.FetchGroupSettlements(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch settlements: %v", err)
		utils.WriteError(w, "failed to retrieve settlements", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status":   "success",
		"group_id": groupID,
		"count":    len(settlements),
		"data":     settlements,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// FUNC TO LIST PERSONAL SETTLEMENTS WITH A FRIEND
func GetPairSettlementsHandler(w http.ResponseWriter, r *http.Request) {
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

	settlements, err := sqlconnect.FetchPairSettlements(ctx, userID, friendID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch settlements: %v", err)
		utils.WriteError(w, "failed to retrieve settlements", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"count":  len(settlements),
		"data":   settlements,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
