package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/cardapio-project/cardapio/pkg/common"
)

type errorBody struct {
	Detail string `json:"detail"`
}

// WriteJSON writes v as the JSON body of a response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// WriteError writes {"detail": message} with the status code matching err's
// kind. Errors of kinds that are not surfaced become a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, common.HTTPStatus(err), errorBody{Detail: common.PublicMessage(err)})
}
