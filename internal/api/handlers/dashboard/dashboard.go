package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"hisab/internal/ledger"
	"hisab/internal/repositories/sqlconnect"
	"hisab/pkg/utils"
)

// FUNC TO GET DASHBOARD SUMMARY
func GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
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

	expenses, err := sqlconnect.FetchUserExpenses(ctx, userID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch expenses: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	summary := ledger.Summary(userID, expenses, time.Now())

	utils.WriteJSON(w, http.StatusOK, "dashboard summary fetched successfully", summary)
}

// FUNC TO GET MONTH-BY-MONTH SPENDING FOR A YEAR
func GetMonthlySpendingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	year := time.Now().Year()
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil || parsed < 2000 || parsed > 2200 {
			utils.WriteError(w, "invalid year", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	expenses, err := sqlconnect.FetchUserExpenses(ctx, userID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch expenses: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	months := ledger.MonthlySpending(userID, expenses, year)
	total := ledger.TotalSpent(userID, expenses, year)

	response := map[string]interface{}{
		"status": "success",
		"year":   year,
		"total":  total,
		"months": months,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// FUNC TO GET RUNNING BALANCES WITH EVERY FRIEND
func GetFriendBalancesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
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

	expenses, err := sqlconnect.FetchUserExpenses(ctx, userID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch expenses: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	settlements, err := sqlconnect.FetchUserPairSettlements(ctx, userID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch settlements: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	balances := ledger.PairBalances(userID, expenses, settlements)

	response := map[string]interface{}{
		"status": "success",
		"count":  len(balances),
		"data":   balances,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// FUNC TO GET THE USER'S GROUPS WITH THEIR NET BALANCE IN EACH
func GetGroupBalancesHandler(w http.ResponseWriter, r *http.Request) {
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

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT g.id, g.name
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
	`, userID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch groups: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
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
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		groupRows = append(groupRows, g)
	}
	if err := rows.Err(); err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type GroupBalance struct {
		GroupID   int             `json:"group_id"`
		GroupName string          `json:"group_name"`
		Balance   decimal.Decimal `json:"balance"`
	}

	balances := make([]GroupBalance, 0, len(groupRows))
	for _, g := range groupRows {
		memberIDs, err := sqlconnect.FetchGroupMemberIDs(ctx, g.ID)
		if err != nil {
			utils.Logger.Errorf("failed to fetch members of group %d: %v", g.ID, err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		expenses, err := sqlconnect.FetchGroupExpenses(ctx, g.ID)
		if err != nil {
			utils.Logger.Errorf("failed to fetch expenses of group %d: %v", g.ID, err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		settlements, err := sqlconnect.FetchGroupSettlements(ctx, g.ID)
		if err != nil {
			utils.Logger.Errorf("failed to fetch settlements of group %d: %v", g.ID, err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}

		balance := decimal.Zero
		for _, mb := range ledger.GroupBalances(memberIDs, expenses, settlements) {
			if mb.UserID == userID {
				balance = mb.TotalBalance
				break
			}
		}
		balances = append(balances, GroupBalance{GroupID: g.ID, GroupName: g.Name, Balance: balance})
	}

	response := map[string]interface{}{
		"status": "success",
		"count":  len(balances),
		"data":   balances,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
