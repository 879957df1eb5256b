package routers

import (
	"net/http"

	"hisab/internal/api/handlers/settlements"
)

func settlementsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/settlements/create", settlements.CreateSettlementHandler)

	mux.HandleFunc("/settlements/personal/{friendId}", settlements.GetPairSettlementsHandler)

	return mux
}
