package api

import (
	"net/http"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/catalog"
)

type schemaResponse struct {
	Tables        []catalog.Table        `json:"tables"`
	Relationships []catalog.Relationship `json:"relationships"`
}

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Catalog == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "schema_not_configured", "schema catalog is not configured", false, nil)
		return
	}
	writeJSON(w, http.StatusOK, schemaResponse{
		Tables:        deps.Catalog.Tables(),
		Relationships: deps.Catalog.Relationships(),
	})
}
