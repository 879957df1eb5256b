package routers

import (
	"net/http"

	"hisab/internal/api/handlers/expenses"
	"hisab/internal/api/handlers/groups"
	"hisab/internal/api/handlers/settlements"
)

func groupsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/groups/create", groups.CreateGroupHandler)

	mux.HandleFunc("/groups/", groups.GetMyGroupsHandler)

	mux.HandleFunc("/groups/{id}", groups.GetGroupByIDHandler)

	mux.HandleFunc("/groups/delete/{id}", groups.DeleteGroupHandler)

	mux.HandleFunc("/groups/update/{id}", groups.UpdateGroupHandler)

	mux.HandleFunc("/groups/{id}/balances", groups.GroupBalancesHandler)

	mux.HandleFunc("/groups/{id}/expenses", expenses.GetGroupExpensesHandler)

	mux.HandleFunc("/groups/{id}/settlements", settlements.GetGroupSettlementsHandler)

	mux.HandleFunc("/groups/member/{id}/invite", groups.InviteMembersHandler)

	mux.HandleFunc("/groups/member/accept/{tokenCode}/invite", groups.AcceptInvitationHandler)

	mux.HandleFunc("/groups/member/{id}/remove", groups.RemoveGroupMemberHandler)

	mux.HandleFunc("/groups/member/{id}/leave", groups.LeaveGroupHandler)

	mux.HandleFunc("/groups/invites/{id}/revoke", groups.RevokeInvitationHandler)

	mux.HandleFunc("/groups/{id}/invites/pending", groups.ListPendingInvitesHandler)

	mux.HandleFunc("/groups/{groupId}/invites/{inviteId}/resend", groups.ResendInviteHandler)

	return mux
}
