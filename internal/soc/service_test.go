package soc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	operation string
	body      *Object
}

type fakeInvoker struct {
	calls    []call
	response map[string]any
	err      error
}

func (f *fakeInvoker) Call(_ context.Context, operation string, body *Object) (map[string]any, error) {
	f.calls = append(f.calls, call{operation: operation, body: body})
	return f.response, f.err
}

type fakeFault struct{ msg string }

func (f *fakeFault) Error() string        { return "soap fault: " + f.msg }
func (f *fakeFault) FaultMessage() string { return f.msg }

func newTestService(t *testing.T, r *Resource, inv Invoker) *ResourceService {
	t.Helper()
	m, _ := testMapper(t)
	log, _ := test.NewNullLogger()
	return NewResourceService(r, m, inv, log)
}

func TestResourceServiceOperations(t *testing.T) {
	inv := &fakeInvoker{response: map[string]any{
		"SetorRetorno": map[string]any{
			"informacaoGeral": map[string]any{"numeroErros": "0", "mensagem": "Setor incluido"},
			"codigo":          "555",
		},
	}}
	svc := newTestService(t, Sector(), inv)
	ctx := context.Background()

	res, err := svc.Create(ctx, Payload{"nome": "Admin"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Setor incluido", res.Message)
	assert.Equal(t, "555", res.VendorCode)
	assert.NotNil(t, res.RawResponse)

	_, err = svc.Update(ctx, "555", Payload{"codigo": "1", "nome": "Admin"})
	require.NoError(t, err)
	_, err = svc.Delete(ctx, Payload{"codigo": "555"})
	require.NoError(t, err)
	_, err = svc.Query(ctx, Payload{"codigo": "555"})
	require.NoError(t, err)

	require.Len(t, inv.calls, 4)
	assert.Equal(t, "incluirSetor", inv.calls[0].operation)
	assert.Equal(t, "alterarSetor", inv.calls[1].operation)
	assert.Equal(t, "excluirSetor", inv.calls[2].operation)
	assert.Equal(t, "consultarSetor", inv.calls[3].operation)

	updated := inv.calls[1].body.Object("setor")
	assert.Equal(t, "555", updated.String("codigo"), "path code wins over body code")
	assert.Equal(t, SearchByCode, updated.String("tipoBusca"))
}

func TestResourceServiceCompanyUpdateUsesLocalID(t *testing.T) {
	inv := &fakeInvoker{response: map[string]any{}}
	svc := newTestService(t, Company(), inv)

	_, err := svc.Update(context.Background(), "42", Payload{"razaoSocial": "ACME"})
	require.NoError(t, err)

	require.Len(t, inv.calls, 1)
	assert.Equal(t, "alterarEmpresa", inv.calls[0].operation)
	assert.Equal(t, "42", inv.calls[0].body.Object("AlterarEmpresaWsVo").String("codigo"))
}

func TestResourceServiceRemoteFaultBecomesResult(t *testing.T) {
	inv := &fakeInvoker{err: fmt.Errorf("call: %w", &fakeFault{msg: "Usuario sem permissao"})}
	svc := newTestService(t, Role(), inv)

	res, err := svc.Create(context.Background(), Payload{"nome": "x"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Usuario sem permissao", res.Message)
	assert.Equal(t, 1, res.ErrorCount)
}

func TestResourceServiceTransportErrorPropagates(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	svc := newTestService(t, Unit(), &fakeInvoker{err: cause})

	res, err := svc.Query(context.Background(), Payload{"codigo": "1"})
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "consultarUnidade")
}

func TestResourceServiceHidesRawResponse(t *testing.T) {
	m, _ := testMapper(t)
	settings := m.Settings()
	settings.ExposeRawResponse = false
	log, _ := test.NewNullLogger()
	svc := NewResourceService(Role(), NewMapper(settings, log), &fakeInvoker{response: map[string]any{"x": "y"}}, log)

	res, err := svc.Delete(context.Background(), Payload{"codigo": "1"})
	require.NoError(t, err)
	assert.Nil(t, res.RawResponse)
}
