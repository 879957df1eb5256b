package routers

import (
	"net/http"

	"hisab/internal/api/handlers/dashboard"
)

func dashboardRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/dashboard/summary", dashboard.GetSummaryHandler)

	mux.HandleFunc("/dashboard/spending", dashboard.GetMonthlySpendingHandler)

	mux.HandleFunc("/dashboard/balances", dashboard.GetFriendBalancesHandler)

	mux.HandleFunc("/dashboard/groups", dashboard.GetGroupBalancesHandler)

	return mux
}
