package groups

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"hisab/internal/ledger"
	"hisab/internal/repositories/sqlconnect"
	"hisab/pkg/utils"
)

// FUNC TO GET THE NETTED BALANCE VIEW OF A GROUP
func GroupBalancesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
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

	memberIDs, err := sqlconnect.FetchGroupMemberIDs(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch group members: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expenses, err := sqlconnect.FetchGroupExpenses(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch group expenses: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	settlements, err := sqlconnect.FetchGroupSettlements(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch group settlements: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	balances := ledger.GroupBalances(memberIDs, expenses, settlements)

	response := map[string]interface{}{
		"status":   "success",
		"group_id": groupID,
		"data":     balances,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
