package http

import (
	"errors"

	"timerelay/internal/core"
	applog "timerelay/internal/log"
)

// Fixed messages returned to callers. Details only go to the logs.
const (
	msgInvalidRequest   = "Requisição inválida."
	msgListClients      = "Falha ao buscar clientes."
	msgListDemands      = "Falha ao buscar demandas."
	msgCreateDemand     = "Falha ao criar demanda."
	msgCreateTimeEntry  = "Falha ao registrar tempo."
	msgGenerateReport   = "Falha ao gerar relatório."
	msgSheetsNotEnabled = "Integração com a planilha não configurada."
)

// errorType classifies err for the error_type log field.
func errorType(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return applog.ErrorTypeValidation
	case errors.Is(err, core.ErrConfiguration):
		return applog.ErrorTypeConfiguration
	case errors.Is(err, core.ErrDataIntegrity):
		return applog.ErrorTypeDataIntegrity
	case errors.Is(err, core.ErrSpreadsheet):
		return applog.ErrorTypeSpreadsheet
	case errors.Is(err, core.ErrRemoteWrite):
		return applog.ErrorTypeRemoteWrite
	case errors.Is(err, core.ErrRemoteQuery):
		return applog.ErrorTypeRemoteQuery
	default:
		return applog.ErrorTypeInternal
	}
}
