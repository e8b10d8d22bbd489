package api

import "github.com/iosugomez/kotxea/internal/models"

// transferResponse is one settlement payment on the wire.
type transferResponse struct {
	From   string  `json:"de"`
	To     string  `json:"para"`
	Amount float64 `json:"cantidad"`
}

// settlementResponse is the body of POST /pagos-minimos.
type settlementResponse struct {
	Transfers []transferResponse `json:"pagos"`
	Balances  map[string]float64 `json:"saldos"`
}

func toSettlementResponse(s *models.Settlement) settlementResponse {
	out := settlementResponse{
		Transfers: make([]transferResponse, len(s.Transfers)),
		Balances:  s.Balances,
	}
	for i, t := range s.Transfers {
		out.Transfers[i] = transferResponse{From: t.From, To: t.To, Amount: t.Amount}
	}
	return out
}
