package soc

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchItems(n int) []Payload {
	items := make([]Payload, n)
	for i := range items {
		items[i] = Payload{
			"codigoUnidade": fmt.Sprint(i + 1),
			"codigoSetor":   "1",
			"codigoCargo":   "4",
			"ativo":         true,
		}
	}
	return items
}

func newHierarchyService(t *testing.T, inv Invoker) *HierarchyService {
	t.Helper()
	m, _ := testMapper(t)
	log, _ := test.NewNullLogger()
	return NewHierarchyService(m, inv, log)
}

func TestHierarchyDeleteDefaults(t *testing.T) {
	m, _ := testMapper(t)

	env := m.Hierarchy(OpDeleteHierarchy, Payload{"codigoUnidade": "9", "codigoSetor": "1", "codigoCargo": "4"})
	body := record(t, env, "ExcluirHierarquia")
	h := body.Object("hierarquia")

	assert.Equal(t, "845144", h.String("codigoEmpresa"))
	assert.Equal(t, SearchBySOCCode, h.String("tipoBuscaEmpresa"))
	assert.Equal(t, SearchBySOCCode, h.String("tipoBusca"))
	assert.False(t, h.Has("ativo"))

	id := body.Object("identificacao")
	assert.Equal(t, "845144", id.String("codigoEmpresaPrincipal"))
	assert.False(t, id.Has("homologacao"))
}

func TestHierarchyIncludeDefaultsActive(t *testing.T) {
	m, _ := testMapper(t)

	h := record(t, m.Hierarchy(OpIncludeHierarchy, Payload{"codigoUnidade": "9"}), "IncluirHierarquia").Object("hierarquia")
	assert.Equal(t, true, mustGet(t, h, "ativo"))
	assert.Equal(t, []string{"codigoEmpresa", "codigoUnidade", "tipoBuscaEmpresa", "tipoBusca", "ativo"}, h.Names())
}

func TestValidateBatch(t *testing.T) {
	assert.Empty(t, ValidateBatch(batchItems(100)))

	errs := ValidateBatch(batchItems(101))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "between 1 and 100")
	assert.Contains(t, errs[0], "101")

	errs = ValidateBatch(nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "got 0")

	items := batchItems(3)
	delete(items[1], "codigoSetor")
	items[2]["ativo"] = "true"
	errs = ValidateBatch(items)
	require.Len(t, errs, 2)
	assert.Equal(t, "hierarchy #2: missing codigoSetor", errs[0])
	assert.Contains(t, errs[1], "hierarchy #3: ativo must be a boolean")
	assert.Contains(t, errs[1], "string")

	items = batchItems(1)
	items[0]["codigoCargo"] = "  "
	assert.Equal(t, []string{"hierarchy #1: missing codigoCargo"}, ValidateBatch(items))
}

func TestBatchEnvelope(t *testing.T) {
	m, _ := testMapper(t)
	items := batchItems(2)
	items[0]["codigoEmpresa"] = "111"
	items[0]["extra"] = "dropped"
	items[1]["codigoEmpresa"] = "222"

	lote := record(t, m.Batch(BatchRequest{Kind: BatchInclude, Items: items}), "lote")
	assert.Equal(t, []string{"identificacao", "codigoEmpresa", "tipoBuscaEmpresa", "hierarquias", "tipoBusca"}, lote.Names())
	assert.Equal(t, "111", lote.String("codigoEmpresa"), "first item decides")

	list, ok := mustGet(t, lote.Object("hierarquias"), "hierarquia").([]*Object)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"codigoUnidade", "codigoSetor", "codigoCargo", "ativo"}, list[0].Names())

	override := record(t, m.Batch(BatchRequest{Kind: BatchInclude, Items: items, CompanyCode: "999"}), "lote")
	assert.Equal(t, "999", override.String("codigoEmpresa"))
}

func TestHierarchyServiceBatch(t *testing.T) {
	t.Run("invalid batch never calls SOC", func(t *testing.T) {
		inv := &fakeInvoker{}
		svc := newHierarchyService(t, inv)

		res, err := svc.Batch(context.Background(), BatchRequest{Kind: BatchInclude})
		assert.Nil(t, res)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.NotEmpty(t, verr.Errors)
		assert.Empty(t, inv.calls)
	})

	t.Run("unknown kind", func(t *testing.T) {
		svc := newHierarchyService(t, &fakeInvoker{})
		_, err := svc.Batch(context.Background(), BatchRequest{Kind: "purge", Items: batchItems(1)})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Errors[0], "purge")
	})

	t.Run("change status", func(t *testing.T) {
		inv := &fakeInvoker{response: map[string]any{
			"loteResult": map[string]any{"informacaoGeral": map[string]any{"numeroErros": "1", "mensagem": "Cargo invalido"}},
		}}
		svc := newHierarchyService(t, inv)

		res, err := svc.Batch(context.Background(), BatchRequest{Kind: BatchChangeStatus, Items: batchItems(2)})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Cargo invalido", res.Message)
		require.Len(t, inv.calls, 1)
		assert.Equal(t, OpBatchStatus, inv.calls[0].operation)
	})
}

func TestHierarchyServiceSingle(t *testing.T) {
	p := Payload{"codigoUnidade": "9", "codigoSetor": "1", "codigoCargo": "4"}

	tests := []struct {
		name      string
		call      func(*HierarchyService, context.Context, Payload) (*Result, error)
		operation string
		wrapper   string
		resultKey string
	}{
		{"include", (*HierarchyService).Include, "incluir", "IncluirHierarquia", "IncluirHierarquiaResult"},
		{"update", (*HierarchyService).Update, "alterar", "AlterarHierarquia", "AlterarHierarquiaResult"},
		{"delete", (*HierarchyService).Delete, "excluir", "ExcluirHierarquia", "ExcluirHierarquiaResult"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInvoker{response: map[string]any{
				tt.resultKey: map[string]any{"informacaoGeral": map[string]any{"numeroErros": "2", "mensagem": "X"}},
			}}
			svc := newHierarchyService(t, inv)

			res, err := tt.call(svc, context.Background(), p)
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, 2, res.ErrorCount)
			assert.Equal(t, "X", res.Message)

			require.Len(t, inv.calls, 1)
			assert.Equal(t, tt.operation, inv.calls[0].operation)
			assert.True(t, inv.calls[0].body.Has(tt.wrapper))
		})
	}

	t.Run("shared result key", func(t *testing.T) {
		inv := &fakeInvoker{response: map[string]any{
			"HierarquiaRetorno": map[string]any{"informacaoGeral": map[string]any{"numeroErros": "0"}},
		}}
		res, err := newHierarchyService(t, inv).Delete(context.Background(), p)
		require.NoError(t, err)
		assert.True(t, res.Success)
	})
}

func TestHierarchyOperationsAreWhitelisted(t *testing.T) {
	assert.Equal(t, []string{"incluir", "alterar", "excluir", "incluirLote", "alterarSituacaoLote"}, HierarchyOperations())
}

func TestParseBatchKind(t *testing.T) {
	for in, want := range map[string]BatchKind{
		"include":             BatchInclude,
		"incluirLote":         BatchInclude,
		"changeStatus":        BatchChangeStatus,
		"alterarSituacaoLote": BatchChangeStatus,
	} {
		got, ok := ParseBatchKind(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParseBatchKind("delete")
	assert.False(t, ok)
}
