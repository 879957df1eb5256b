package routers

import (
	"net/http"

	"hisab/internal/api/handlers/expenses"
)

func expensesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/expenses/create", expenses.CreateExpenseHandler)

	mux.HandleFunc("/expenses/{id}", expenses.GetExpenseByIDHandler)

	mux.HandleFunc("/expenses/update/{id}", expenses.UpdateExpenseHandler)

	mux.HandleFunc("/expenses/delete/{id}", expenses.DeleteExpenseHandler)

	mux.HandleFunc("/expenses/{id}/paid", expenses.MarkSplitPaidHandler)

	mux.HandleFunc("/expenses/personal/{friendId}", expenses.GetPersonalExpensesHandler)

	return mux
}
