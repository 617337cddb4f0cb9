package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/studioflow/shoot-scheduler/internal/httperr"
)

// respondBookingError traduz falhas do state machine para o envelope HTTP.
// Conflitos (409) são seguros para retry após re-leitura; 4xx restantes não.
func respondBookingError(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, "storage_error", "Operação falhou, nenhum estado foi alterado.")
		return
	}

	switch code {
	case "slot_unavailable", "slot_already_confirmed",
		"slot_held_by_other_project", "slot_project_mismatch":
		httperr.Conflict(c, code, "Slot foi alterado por outra operação. Recarregue e tente de novo.")

	case "not_project_owner":
		httperr.Forbidden(c, code, "Projeto pertence a outro centro.")

	case "project_not_found", "slot_not_found":
		httperr.NotFound(c, code, "Registro não encontrado.")

	case "empty_slot_ids", "invalid_date":
		httperr.BadRequest(c, code, "Dados inválidos.")

	default:
		httperr.Internal(c, code, "Operação falhou.")
	}
}
