package soc

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// MaxBatchSize is the largest batch the SOC hierarchy service accepts.
const MaxBatchSize = 100

// Hierarchy operations.
const (
	OpIncludeHierarchy = "incluir"
	OpUpdateHierarchy  = "alterar"
	OpDeleteHierarchy  = "excluir"
	OpBatchInclude     = "incluirLote"
	OpBatchStatus      = "alterarSituacaoLote"
)

// HierarchyOperations lists every operation of the hierarchy service.
func HierarchyOperations() []string {
	return []string{OpIncludeHierarchy, OpUpdateHierarchy, OpDeleteHierarchy, OpBatchInclude, OpBatchStatus}
}

var (
	// Each single-link operation answers under its own result key; the
	// shared keys cover older deployments.
	hierarchyResultKeys = map[string]string{
		OpIncludeHierarchy: "IncluirHierarquiaResult",
		OpUpdateHierarchy:  "AlterarHierarquiaResult",
		OpDeleteHierarchy:  "ExcluirHierarquiaResult",
	}
	hierarchySharedKeys = []string{"HierarquiaRetorno", "HierarchyReturn"}
	batchResultKeys     = []string{"loteResult", "LoteRetorno", "BatchReturn"}
)

// BatchKind selects the batch operation.
type BatchKind string

const (
	BatchInclude      BatchKind = "include"
	BatchChangeStatus BatchKind = "changeStatus"
)

// ParseBatchKind accepts the canonical kinds and the vendor operation names.
func ParseBatchKind(s string) (BatchKind, bool) {
	switch strings.TrimSpace(s) {
	case "include", "incluir", OpBatchInclude:
		return BatchInclude, true
	case "changeStatus", "alterarSituacao", OpBatchStatus:
		return BatchChangeStatus, true
	}
	return "", false
}

// Operation returns the remote operation for k.
func (k BatchKind) Operation() string {
	if k == BatchChangeStatus {
		return OpBatchStatus
	}
	return OpBatchInclude
}

// BatchRequest is a size-bounded list of hierarchy links.
type BatchRequest struct {
	Kind        BatchKind
	Items       []Payload
	CompanyCode string
}

// ValidateBatch checks size, required codes and the active flag type.
// It returns nil when the batch is acceptable.
func ValidateBatch(items []Payload) []string {
	var errs []string
	if n := len(items); n == 0 || n > MaxBatchSize {
		errs = append(errs, fmt.Sprintf("batch must contain between 1 and %d hierarchies, got %d", MaxBatchSize, n))
		if n == 0 {
			return errs
		}
	}

	for i, item := range items {
		var missing []string
		for _, k := range []string{"codigoUnidade", "codigoSetor", "codigoCargo"} {
			if item.Text(k) == "" {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Sprintf("hierarchy #%d: missing %s", i+1, strings.Join(missing, ", ")))
		}
		if _, ok := item["ativo"].(bool); !ok {
			errs = append(errs, fmt.Sprintf("hierarchy #%d: ativo must be a boolean, got %T", i+1, item["ativo"]))
		}
	}
	return errs
}

// hierarchyRecord builds the hierarquia block.
func (m *Mapper) hierarchyRecord(p Payload, withActive bool) *Object {
	rec := NewObject().
		Set("codigoEmpresa", p.Or("codigoEmpresa", orNil(m.settings.DefaultCompanyCode))).
		Set("codigoUnidade", p.Or("codigoUnidade", nil)).
		Set("codigoSetor", p.Or("codigoSetor", nil)).
		Set("codigoCargo", p.Or("codigoCargo", nil)).
		Set("tipoBuscaEmpresa", p.Or("tipoBuscaEmpresa", SearchBySOCCode)).
		Set("tipoBusca", p.Or("tipoBusca", SearchBySOCCode))
	if withActive {
		rec.Set("ativo", p.Or("ativo", true))
	}
	return rec
}

// Hierarchy builds the envelope for a single-link operation.
func (m *Mapper) Hierarchy(operation string, p Payload) *Object {
	wrapper := "IncluirHierarquia"
	switch operation {
	case OpUpdateHierarchy:
		wrapper = "AlterarHierarquia"
	case OpDeleteHierarchy:
		wrapper = "ExcluirHierarquia"
	}
	body := NewObject().
		Set("identificacao", m.identity(p, false, false)).
		Set("hierarquia", m.hierarchyRecord(p, operation != OpDeleteHierarchy))
	return NewObject().Set(wrapper, body)
}

// Batch builds the lote envelope. Global fields come from the explicit
// company override or the first item; items are not cross-checked.
func (m *Mapper) Batch(req BatchRequest) *Object {
	var first Payload
	if len(req.Items) > 0 {
		first = req.Items[0]
	}

	var company any = orNil(strings.TrimSpace(req.CompanyCode))
	if company == nil {
		company = first.Or("codigoEmpresa", nil)
	}

	items := make([]*Object, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, NewObject().
			Set("codigoUnidade", it.Or("codigoUnidade", nil)).
			Set("codigoSetor", it.Or("codigoSetor", nil)).
			Set("codigoCargo", it.Or("codigoCargo", nil)).
			Set("ativo", it.Or("ativo", nil)))
	}

	lote := NewObject().
		Set("identificacao", m.identity(first, false, false)).
		Set("codigoEmpresa", company).
		Set("tipoBuscaEmpresa", first.Or("tipoBuscaEmpresa", SearchBySOCCode)).
		Set("hierarquias", NewObject().Set("hierarquia", items)).
		Set("tipoBusca", first.Or("tipoBusca", SearchBySOCCode))
	return NewObject().Set("lote", lote)
}

// HierarchyService exposes the legacy hierarchy operations.
type HierarchyService struct {
	mapper  *Mapper
	invoker Invoker
	single  map[string]*Normalizer
	batch   *Normalizer
	logger  logrus.FieldLogger
}

// NewHierarchyService wires the hierarchy operations to an invoker.
func NewHierarchyService(mapper *Mapper, invoker Invoker, logger logrus.FieldLogger) *HierarchyService {
	single := make(map[string]*Normalizer, len(hierarchyResultKeys))
	for op, key := range hierarchyResultKeys {
		keys := append([]string{key}, hierarchySharedKeys...)
		single[op] = NewNormalizer(keys, []string{"hierarquia"})
	}
	return &HierarchyService{
		mapper:  mapper,
		invoker: invoker,
		single:  single,
		batch:   NewNormalizer(batchResultKeys, nil),
		logger:  logger.WithField("resource", "hierarchy"),
	}
}

// Include links a unit, sector and role.
func (s *HierarchyService) Include(ctx context.Context, p Payload) (*Result, error) {
	return s.call(ctx, OpIncludeHierarchy, p)
}

// Update alters a link.
func (s *HierarchyService) Update(ctx context.Context, p Payload) (*Result, error) {
	return s.call(ctx, OpUpdateHierarchy, p)
}

// Delete removes a link.
func (s *HierarchyService) Delete(ctx context.Context, p Payload) (*Result, error) {
	return s.call(ctx, OpDeleteHierarchy, p)
}

// Batch validates req and sends it as a single list-valued call. Invalid
// batches return a *ValidationError without contacting SOC.
func (s *HierarchyService) Batch(ctx context.Context, req BatchRequest) (*Result, error) {
	var errs []string
	if req.Kind != BatchInclude && req.Kind != BatchChangeStatus {
		errs = append(errs, fmt.Sprintf("unsupported batch operation %q, expected %q or %q", req.Kind, BatchInclude, BatchChangeStatus))
	}
	errs = append(errs, ValidateBatch(req.Items)...)
	if len(errs) > 0 {
		s.logger.WithField("errors", errs).Warn("Rejected hierarchy batch")
		return nil, &ValidationError{Errors: errs}
	}

	return invoke(ctx, s.invoker, s.batch, s.mapper.settings, s.logger.WithField("items", len(req.Items)), req.Kind.Operation(), s.mapper.Batch(req))
}

func (s *HierarchyService) call(ctx context.Context, operation string, p Payload) (*Result, error) {
	return invoke(ctx, s.invoker, s.single[operation], s.mapper.settings, s.logger, operation, s.mapper.Hierarchy(operation, p))
}
