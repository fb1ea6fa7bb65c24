package models

import (
	"fmt"

	"github.com/nexconsult/soc-api/internal/soc"
)

// BatchRequest representa uma requisição de lote de hierarquias
// @Description Inclusão ou alteração de situação de até 100 hierarquias em uma única chamada
type BatchRequest struct {
	// Tipo da operação: include ou changeStatus
	// @example "include"
	OperationType string `json:"operationType,omitempty" example:"include"`
	// Alias de operationType
	OperationKind string `json:"operationKind,omitempty" example:"changeStatus"`
	// Hierarquias (codigoUnidade, codigoSetor, codigoCargo, ativo)
	Hierarquias []map[string]interface{} `json:"hierarquias,omitempty"`
	// Alias de hierarquias
	Items []map[string]interface{} `json:"items,omitempty"`
	// Empresa do lote; quando ausente usa a da primeira hierarquia
	// @example "845144"
	CodigoEmpresa interface{} `json:"codigoEmpresa,omitempty" swaggertype:"string" example:"845144"`
}

// ToDomain resolve os aliases e converte a requisição para o lote do domínio
func (r *BatchRequest) ToDomain() (soc.BatchRequest, error) {
	name := r.OperationType
	if name == "" {
		name = r.OperationKind
	}
	kind, ok := soc.ParseBatchKind(name)
	if !ok {
		return soc.BatchRequest{}, fmt.Errorf("unknown batch operation %q, expected include or changeStatus", name)
	}

	raw := r.Hierarquias
	if len(raw) == 0 {
		raw = r.Items
	}
	items := make([]soc.Payload, len(raw))
	for i, item := range raw {
		items[i] = soc.Payload(item)
	}

	req := soc.BatchRequest{Kind: kind, Items: items}
	if r.CodigoEmpresa != nil {
		req.CompanyCode = soc.FormatValue(r.CodigoEmpresa)
	}
	return req, nil
}
