package groups

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"hisab/internal/ledger"
	"hisab/internal/models"
	"hisab/internal/repositories/sqlconnect"
	"hisab/pkg/utils"
)

// FUNC TO CREATE A GROUP
func CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
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

	var newGroup models.Group
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&newGroup); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	newGroup.Name = strings.TrimSpace(newGroup.Name)
	if newGroup.Name == "" {
		utils.WriteError(w, "group name is required", http.StatusBadRequest)
		return
	}

	if len(newGroup.Name) > 100 || len(newGroup.Description) > 500 {
		utils.WriteError(w, "name or description too long", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tx, err := db.Begin()
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	query := `INSERT INTO groups (name, description, created_by) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, query, newGroup.Name, newGroup.Description, userID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to create group: %v", err)
		utils.WriteError(w, "failed to create group, try again later!", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to get last inserted ID: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	insertMemberQuery := `INSERT INTO group_members (group_id, user_id) VALUES (?, ?)`
	_, err = tx.ExecContext(ctx, insertMemberQuery, id, userID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to add group creator as member: %v", err)
		utils.WriteError(w, "failed to create group, try again later!", http.StatusInternalServerError)
		return
	}

	if err = tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status":  "success",
		"message": "Group created successfully",
		"data": map[string]interface{}{
			"group_id":   id,
			"group_name": newGroup.Name,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// FUNC TO UPDATE GROUP NAME/DESCRIPTION
func UpdateGroupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	id, err := strconv.Atoi(idStr)
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

	type request struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err = decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Name != "" && strings.TrimSpace(req.Name) == "" {
		utils.WriteError(w, "name cannot be empty or whitespace", http.StatusBadRequest)
		return
	}

	if len(req.Name) > 100 || len(req.Description) > 500 {
		utils.WriteError(w, "name or description too long", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var createdBy int
	err = db.QueryRowContext(ctx, "SELECT created_by FROM groups WHERE id = ?", id).Scan(&createdBy)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if createdBy != userID {
		utils.WriteError(w, "forbidden: not group admin", http.StatusForbidden)
		return
	}

	// Build dynamic update query
	fields := []string{}
	args := []interface{}{}

	if req.Name != "" {
		fields = append(fields, "name = ?")
		args = append(args, req.Name)
	}
	if req.Description != "" {
		fields = append(fields, "description = ?")
		args = append(args, req.Description)
	}

	if len(fields) == 0 {
		utils.WriteError(w, "no updates provided", http.StatusBadRequest)
		return
	}

	args = append(args, id)

	query := fmt.Sprintf("UPDATE groups SET %s WHERE id = ?", strings.Join(fields, ", "))
	_, err = db.ExecContext(ctx, query, args...)
	if err != nil {
		utils.WriteError(w, "failed to update group", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, "Group updated successfully", nil)
}

// FUNC TO GET ALL GROUPS THE LOGGED-IN USER BELONGS TO
func GetMyGroupsHandler(w http.ResponseWriter, r *http.Request) {
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

	query := `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
	`
	rows, err := db.Query(query, userID)
	if err != nil {
		utils.Logger.Errorf("internal server error: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	groupList := make([]models.Group, 0)
	for rows.Next() {
		var group models.Group
		err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.CreatedBy, &group.CreatedAt)
		if err != nil {
			utils.Logger.Errorf("error fetching data: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		groupList = append(groupList, group)
	}

	response := struct {
		Status string         `json:"status"`
		Count  int            `json:"count"`
		Data   []models.Group `json:"data"`
	}{
		Status: "success",
		Count:  len(groupList),
		Data:   groupList,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// FUNC TO GET A SINGLE GROUP, ITS MEMBERS AND THEIR BALANCES
func GetGroupByIDHandler(w http.ResponseWriter, r *http.Request) {
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

	var exists bool
	err = db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?
        )
    `, groupID, userID).Scan(&exists)
	if err != nil {
		utils.Logger.Errorf("error checking access: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !exists {
		utils.WriteError(w, "forbidden: you are not a member of this group", http.StatusForbidden)
		return
	}

	var group models.Group
	err = db.QueryRow(`
        SELECT id, name, description, created_by, created_at, updated_at
        FROM groups WHERE id = ?
    `, groupID).Scan(
		&group.ID, &group.Name, &group.Description,
		&group.CreatedBy, &group.CreatedAt, &group.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching group: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type MemberDetails struct {
		ID       int    `json:"id"`
		GroupID  int    `json:"group_id"`
		UserID   int    `json:"user_id"`
		JoinedAt string `json:"joined_at"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}

	rows, err := db.Query(`
        SELECT gm.id, gm.group_id, gm.user_id, gm.joined_at, u.name, u.email
        FROM group_members gm
        JOIN users u ON u.id = gm.user_id
        WHERE gm.group_id = ?
        ORDER BY gm.joined_at ASC, gm.id ASC
    `, groupID)
	if err != nil {
		utils.Logger.Errorf("error fetching group members: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	members := make([]MemberDetails, 0)
	memberIDs := make([]int, 0)
	for rows.Next() {
		var member MemberDetails
		var joinedAt sql.NullString
		if err := rows.Scan(&member.ID, &member.GroupID, &member.UserID, &joinedAt, &member.Name, &member.Email); err != nil {
			utils.Logger.Errorf("error scanning group member: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if joinedAt.Valid {
			member.JoinedAt = joinedAt.String
		}
		members = append(members, member)
		memberIDs = append(memberIDs, member.UserID)
	}
	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("error iterating group members: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	expenses, err := sqlconnect.FetchGroupExpenses(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("error fetching group expenses: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	settlements, err := sqlconnect.FetchGroupSettlements(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("error fetching group settlements: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	balances := ledger.GroupBalances(memberIDs, expenses, settlements)

	response := struct {
		Status   string                 `json:"status"`
		Group    models.Group           `json:"group"`
		Members  []MemberDetails        `json:"members"`
		Balances []ledger.MemberBalance `json:"balances"`
	}{
		Status:   "success",
		Group:    group,
		Members:  members,
		Balances: balances,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// FUNC TO DELETE A GROUP BY ADMIN
func DeleteGroupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
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

	var createdBy int
	err = db.QueryRowContext(ctx, "SELECT created_by FROM groups WHERE id = ?", groupID).Scan(&createdBy)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if createdBy != userID {
		utils.WriteError(w, "forbidden: not group admin", http.StatusForbidden)
		return
	}

	res, err := db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		utils.Logger.Errorf("error deleting data: %v", err)
		utils.WriteError(w, "error deleting group", http.StatusInternalServerError)
		return
	}

	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		utils.WriteError(w, "group not found or already deleted", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, "group and its members deleted successfully", nil)
}

// FUNC TO INVITE MEMBERS TO GROUP
func InviteMembersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	inviterName, _ := r.Context().Value(utils.ContextKey("username")).(string)

	type InviteRequest struct {
		Email string `json:"email"`
	}

	var invites []InviteRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err = json.Unmarshal(body, &invites); err != nil {
		utils.WriteError(w, "invalid JSON array", http.StatusBadRequest)
		return
	}

	if len(invites) == 0 {
		utils.WriteError(w, "no invites provided", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}

	var group models.Group
	err = tx.QueryRowContext(ctx, "SELECT name, description, created_by FROM groups WHERE id = ?", groupID).
		Scan(&group.Name, &group.Description, &group.CreatedBy)
	if err != nil {
		tx.Rollback()
		utils.WriteError(w, "group not found", http.StatusNotFound)
		return
	}

	if group.CreatedBy != userID {
		tx.Rollback()
		utils.WriteError(w, "forbidden: not group admin", http.StatusForbidden)
		return
	}

	durationHours, err := strconv.Atoi(os.Getenv("INVITE_TOKEN_EXP_DURATION"))
	if err != nil {
		tx.Rollback()
		utils.ErrorHandler(err, "invalid invite token duration")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expiryTime := time.Now().Add(time.Hour * time.Duration(durationHours))
	expiry := expiryTime.UTC().Format("2006-01-02 15:04:05")

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO group_invitations (group_id, email, token, invited_by, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		utils.ErrorHandler(err, "failed to prepare insert statement")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer stmt.Close()

	addedInvites := 0
	skippedInvites := 0
	var successfulInvites []string
	var skippedDetails []map[string]string

	for _, inv := range invites {
		email := strings.ToLower(strings.TrimSpace(inv.Email))
		if email == "" {
			skippedInvites++
			skippedDetails = append(skippedDetails, map[string]string{
				"email":  email,
				"reason": "email is empty or invalid",
			})
			continue
		}

		var exists bool
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM group_invitations WHERE group_id = ? AND email = ? AND status = 'pending'
			)
		`, groupID, email).Scan(&exists)
		if err == nil && exists {
			skippedInvites++
			skippedDetails = append(skippedDetails, map[string]string{
				"email":  email,
				"reason": "user already invited to this group",
			})
			continue
		}

		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM group_members WHERE group_id = ? AND user_id = (
					SELECT id FROM users WHERE email = ?
				)
			)
		`, groupID, email).Scan(&exists)
		if err == nil && exists {
			skippedInvites++
			skippedDetails = append(skippedDetails, map[string]string{
				"email":  email,
				"reason": "user is already a group member",
			})
			continue
		}

		token := uuid.NewString()

		_, err = stmt.ExecContext(ctx, groupID, email, token, userID, expiry)
		if err != nil {
			tx.Rollback()
			utils.Logger.Errorf("failed to insert invitation for %s: %v", email, err)
			utils.WriteError(w, "failed to save invites", http.StatusInternalServerError)
			return
		}

		addedInvites++
		successfulInvites = append(successfulInvites, email)

		go func(email, token string) {
			if err := utils.SendGroupInviteEmail(email, inviterName, group.Name, token, expiryTime); err != nil {
				utils.Logger.Errorf("failed to send invite email to %s: %v", email, err)
			}
		}(email, token)
	}

	if err = tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "failed to save invites", http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{
		"status":            "success",
		"added_invites":     addedInvites,
		"skipped_invites":   skippedInvites,
		"successful_emails": successfulInvites,
		"skipped_details":   skippedDetails,
		"message":           fmt.Sprintf("%d invites sent, %d skipped", addedInvites, skippedInvites),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// FUNC TO ACCEPT GROUP INVITATION
func AcceptInvitationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
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

	token := r.PathValue("tokenCode")
	if _, err := uuid.Parse(token); err != nil {
		utils.WriteError(w, "invalid invite token", http.StatusBadRequest)
		return
	}

	var userEmail string
	err := db.QueryRow("SELECT email FROM users WHERE id = ?", userID).Scan(&userEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "user not found, please sign up", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("internal server error: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var groupInvite models.GroupInvitation
	query := "SELECT id, group_id, email, status FROM group_invitations WHERE token = ? AND expires_at > ?"
	err = db.QueryRow(query, token, time.Now().UTC().Format("2006-01-02 15:04:05")).Scan(&groupInvite.ID, &groupInvite.GroupID, &groupInvite.Email, &groupInvite.Status)
	if err != nil {
		utils.WriteError(w, "invite token expired or invalid", http.StatusBadRequest)
		return
	}

	if groupInvite.Status != "pending" {
		utils.WriteError(w, "invitation is no longer valid", http.StatusBadRequest)
		return
	}

	if !strings.EqualFold(groupInvite.Email, userEmail) {
		utils.WriteError(w, "this invitation was sent to a different email", http.StatusForbidden)
		return
	}

	var exists int
	checkMemberQuery := "SELECT COUNT(*) FROM group_members WHERE group_id = ? AND user_id = ?"
	err = db.QueryRow(checkMemberQuery, groupInvite.GroupID, userID).Scan(&exists)
	if err != nil {
		utils.Logger.Errorf("failed to check existing membership: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if exists > 0 {
		utils.WriteError(w, "you are already a member of this group", http.StatusBadRequest)
		return
	}

	tx, err := db.Begin()
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, err = tx.Exec("UPDATE group_invitations SET status = 'accepted' WHERE id = ?", groupInvite.ID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("error updating invite: %v", err)
		utils.WriteError(w, "unable to join group at the moment, please try again later!", http.StatusInternalServerError)
		return
	}

	insertMemberQuery := `INSERT INTO group_members (group_id, user_id) VALUES (?, ?)`
	_, err = tx.Exec(insertMemberQuery, groupInvite.GroupID, userID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to join group: %v", err)
		utils.WriteError(w, "failed to join group", http.StatusInternalServerError)
		return
	}

	if err = tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, "invite accepted successfully", nil)
}

// FUNC TO REMOVE MEMBER
func RemoveGroupMemberHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
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

	type request struct {
		ID int `json:"id"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err = decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var group models.Group
	err = db.QueryRow("SELECT name, description, created_by FROM groups WHERE id = ?", groupID).
		Scan(&group.Name, &group.Description, &group.CreatedBy)
	if err != nil {
		utils.WriteError(w, "group not found", http.StatusNotFound)
		return
	}

	if group.CreatedBy != userID {
		utils.WriteError(w, "forbidden: not group admin", http.StatusForbidden)
		return
	}

	var memberCheck models.GroupMember
	err = db.QueryRow("SELECT id FROM group_members WHERE group_id = ? AND user_id = ?", groupID, req.ID).Scan(&memberCheck.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "user is not a member of this group", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if req.ID == userID {
		utils.WriteError(w, "group admins cannot leave. Transfer ownership or delete the group.", http.StatusBadRequest)
		return
	}

	settled, err := memberIsSettled(r.Context(), groupID, req.ID)
	if err != nil {
		utils.Logger.Errorf("failed to check member balance: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !settled {
		utils.WriteError(w, "member has unsettled balances in this group", http.StatusBadRequest)
		return
	}

	_, err = db.Exec("DELETE FROM group_members WHERE group_id = ? AND user_id = ?", groupID, req.ID)
	if err != nil {
		utils.Logger.Errorf("failed to remove member: %v", err)
		utils.WriteError(w, "failed to remove member", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, "member removed successfully", nil)
}

// FUNC FOR A MEMBER TO LEAVE GROUP
func LeaveGroupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
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

	var group models.Group
	err = db.QueryRow("SELECT name, description, created_by FROM groups WHERE id = ?", groupID).
		Scan(&group.Name, &group.Description, &group.CreatedBy)
	if err != nil {
		utils.WriteError(w, "group not found", http.StatusNotFound)
		return
	}

	var memberCheck models.GroupMember
	err = db.QueryRow("SELECT id FROM group_members WHERE group_id = ? AND user_id = ?", groupID, userID).Scan(&memberCheck.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "you are not a member of this group", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if group.CreatedBy == userID {
		utils.WriteError(w, "group admins cannot leave. Transfer ownership or delete the group.", http.StatusBadRequest)
		return
	}

	settled, err := memberIsSettled(r.Context(), groupID, userID)
	if err != nil {
		utils.Logger.Errorf("failed to check member balance: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !settled {
		utils.WriteError(w, "you have unsettled balances in this group", http.StatusBadRequest)
		return
	}

	_, err = db.Exec("DELETE FROM group_members WHERE group_id = ? AND user_id = ?", groupID, userID)
	if err != nil {
		utils.Logger.Errorf("failed to leave group: %v", err)
		utils.WriteError(w, "failed to leave group", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, "you have successfully left the group", nil)
}

// memberIsSettled reports whether the user's netted balance in the group is
// within the rounding tolerance.
func memberIsSettled(ctx context.Context, groupID, userID int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	memberIDs, err := sqlconnect.FetchGroupMemberIDs(ctx, groupID)
	if err != nil {
		return false, err
	}

	expenses, err := sqlconnect.FetchGroupExpenses(ctx, groupID)
	if err != nil {
		return false, err
	}

	settlements, err := sqlconnect.FetchGroupSettlements(ctx, groupID)
	if err != nil {
		return false, err
	}

	for _, balance := range ledger.GroupBalances(memberIDs, expenses, settlements) {
		if balance.UserID == userID {
			return ledger.WithinTolerance(balance.TotalBalance), nil
		}
	}
	return true, nil
}

// FUNC TO LIST PENDING INVITES FOR ADMIN
func ListPendingInvitesHandler(w http.ResponseWriter, r *http.Request) {
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

	var group models.Group
	err = db.QueryRow("SELECT name, description, created_by FROM groups WHERE id = ?", groupID).
		Scan(&group.Name, &group.Description, &group.CreatedBy)
	if err != nil {
		utils.WriteError(w, "group not found", http.StatusNotFound)
		return
	}

	if group.CreatedBy != userID {
		utils.WriteError(w, "forbidden: not group admin", http.StatusForbidden)
		return
	}

	page, limit := utils.GetPaginationParams(r)
	offset := (page - 1) * limit

	query := `
		SELECT id, group_id, email, status, invited_by, expires_at, created_at
		FROM group_invitations
		WHERE group_id = ? AND status = ?
	`
	args := []interface{}{groupID, "pending"}

	query = utils.AddSorting(r, query)

	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		utils.WriteError(w, "failed to retrieve invitations", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var invites []models.GroupInvitation
	for rows.Next() {
		var invite models.GroupInvitation
		err := rows.Scan(
			&invite.ID,
			&invite.GroupID,
			&invite.Email,
			&invite.Status,
			&invite.InvitedBy,
			&invite.ExpiresAt,
			&invite.CreatedAt,
		)
		if err != nil {
			utils.WriteError(w, "error scanning invitations", http.StatusInternalServerError)
			return
		}
		invites = append(invites, invite)
	}

	if err = rows.Err(); err != nil {
		utils.WriteError(w, "error reading invitations", http.StatusInternalServerError)
		return
	}

	if len(invites) == 0 {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]interface{}{
			"status":  "success",
			"message": "no pending invitations found",
			"data":    []models.GroupInvitation{},
		}
		json.NewEncoder(w).Encode(response)
		return
	}

	response := struct {
		Status   string                   `json:"status"`
		Count    int                      `json:"count"`
		Page     int                      `json:"page"`
		PageSize int                      `json:"page_size"`
		Data     []models.GroupInvitation `json:"data"`
	}{
		Status:   "success",
		Count:    len(invites),
		Page:     page,
		PageSize: limit,
		Data:     invites,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// FUNC TO RESEND INVITATION
func ResendInviteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	groupIDStr := r.PathValue("groupId")
	inviteIDStr := r.PathValue("inviteId")

	groupID, err := strconv.Atoi(groupIDStr)
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	inviteID, err := strconv.Atoi(inviteIDStr)
	if err != nil {
		utils.WriteError(w, "invalid invite ID", http.StatusBadRequest)
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

	inviterName, _ := r.Context().Value(utils.ContextKey("username")).(string)

	var group models.Group
	err = db.QueryRow("SELECT name, description, created_by FROM groups WHERE id = ?", groupID).
		Scan(&group.Name, &group.Description, &group.CreatedBy)
	if err != nil {
		utils.WriteError(w, "group not found", http.StatusNotFound)
		return
	}

	if group.CreatedBy != userID {
		utils.WriteError(w, "forbidden: not group admin", http.StatusForbidden)
		return
	}

	var invite models.GroupInvitation
	err = db.QueryRow(`SELECT id, group_id, email, status FROM group_invitations WHERE id = ? AND group_id = ?`, inviteID, groupID).Scan(&invite.ID, &invite.GroupID, &invite.Email, &invite.Status)
	if err == sql.ErrNoRows {
		utils.WriteError(w, "invitation not found", http.StatusNotFound)
		return
	} else if err != nil {
		utils.WriteError(w, "failed to retrieve invitation", http.StatusInternalServerError)
		return
	}

	if invite.Status != "pending" {
		utils.WriteError(w, "cannot resend a non-pending invitation", http.StatusBadRequest)
		return
	}

	durationHours, err := strconv.Atoi(os.Getenv("INVITE_TOKEN_EXP_DURATION"))
	if err != nil {
		utils.ErrorHandler(err, "invalid invite token duration")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expiryTime := time.Now().Add(time.Hour * time.Duration(durationHours))
	expiry := expiryTime.UTC().Format("2006-01-02 15:04:05")

	token := uuid.NewString()

	_, err = db.Exec(`
		UPDATE group_invitations 
		SET token = ?, created_at = NOW(), expires_at = ? 
		WHERE id = ? AND group_id = ?`,
		token, expiry, inviteID, groupID)
	if err != nil {
		utils.WriteError(w, "failed to update invitation", http.StatusInternalServerError)
		return
	}

	go func(email, token string) {
		if err := utils.SendGroupInviteEmail(email, inviterName, group.Name, token, expiryTime); err != nil {
			utils.Logger.Errorf("failed to send invite email to %s: %v", email, err)
		}
	}(invite.Email, token)

	response := map[string]interface{}{
		"status":  "success",
		"message": "invitation resent successfully",
		"data": map[string]interface{}{
			"invite_id":  inviteID,
			"group_id":   groupID,
			"email":      invite.Email,
			"expires_at": expiryTime,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// FUNC TO REVOKE INVITATION
func RevokeInvitationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	inviteID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid invitation ID", http.StatusBadRequest)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	var groupCreator int
	err = db.QueryRow(`
		SELECT g.created_by FROM group_invitations gi
		JOIN groups g ON g.id = gi.group_id
		WHERE gi.id = ?
	`, inviteID).Scan(&groupCreator)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "invitation not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to check invitation", http.StatusInternalServerError)
		return
	}

	if groupCreator != userID {
		utils.WriteError(w, "forbidden: not group admin", http.StatusForbidden)
		return
	}

	_, err = db.Exec("UPDATE group_invitations SET status = 'revoked' WHERE id = ?", inviteID)
	if err != nil {
		utils.WriteError(w, "failed to revoke invitation", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, "invitation revoked successfully", nil)
}
