package soc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sectorNormalizer() *Normalizer {
	return NewNormalizer(Sector().ResultKeys, Sector().EntityKeys)
}

func TestNormalizeErrorCounter(t *testing.T) {
	n := sectorNormalizer()

	t.Run("zero errors", func(t *testing.T) {
		res := n.Normalize(map[string]any{
			"SectorReturn": map[string]any{"informacaoGeral": map[string]any{"numeroErros": 0}},
		})
		assert.True(t, res.Success)
		assert.Equal(t, 0, res.ErrorCount)
		assert.Equal(t, msgSuccess, res.Message)
		assert.Empty(t, res.Details)
	})

	t.Run("positive errors", func(t *testing.T) {
		res := n.Normalize(map[string]any{
			"SectorReturn": map[string]any{"informacaoGeral": map[string]any{"numeroErros": 2, "mensagem": "X"}},
		})
		assert.False(t, res.Success)
		assert.Equal(t, 2, res.ErrorCount)
		assert.Equal(t, "X", res.Message)
	})

	for _, count := range []any{1, "3", float64(7), "12"} {
		res := n.Normalize(map[string]any{
			"SetorRetorno": map[string]any{"informacaoGeral": map[string]any{"numeroErros": count}},
		})
		assert.False(t, res.Success, "count %v", count)
		assert.Equal(t, msgFailure, res.Message)
	}

	t.Run("text counter from XML", func(t *testing.T) {
		res := n.Normalize(map[string]any{
			"SetorRetorno": map[string]any{"informacaoGeral": map[string]any{"numeroErros": "4"}},
		})
		assert.False(t, res.Success)
		assert.Equal(t, 4, res.ErrorCount)
	})

	t.Run("missing counter is success", func(t *testing.T) {
		res := n.Normalize(map[string]any{
			"SetorRetorno": map[string]any{"informacaoGeral": map[string]any{"mensagem": "ok"}},
		})
		assert.True(t, res.Success)
		assert.Equal(t, "ok", res.Message)
	})

	t.Run("unparsable counter is a failure", func(t *testing.T) {
		res := n.Normalize(map[string]any{
			"return": map[string]any{"informacaoGeral": map[string]any{"numeroErros": "many"}},
		})
		assert.False(t, res.Success)
		assert.Equal(t, 1, res.ErrorCount)
	})

	for _, count := range []float64{1e19, -1e19, math.Inf(1), math.NaN(), 1.5} {
		res := n.Normalize(map[string]any{
			"return": map[string]any{"informacaoGeral": map[string]any{"numeroErros": count}},
		})
		assert.False(t, res.Success, "counter %v", count)
		assert.Equal(t, 1, res.ErrorCount, "counter %v", count)
	}
}

func TestNormalizeExtractionOrder(t *testing.T) {
	n := sectorNormalizer()

	res := n.Normalize(map[string]any{
		"return": map[string]any{
			"informacaoGeral": map[string]any{
				"numeroErros":                 "0",
				"codigoMensagem":              "SOC-100",
				"mensagemOperacaoDetalheList": map[string]any{"mensagem": "only one"},
			},
			"codigo":         "991",
			"dadosSetorWsVo": map[string]any{"nome": "Admin"},
		},
	})

	assert.True(t, res.Success)
	assert.Equal(t, "SOC-100", res.MessageCode)
	assert.Equal(t, "991", res.VendorCode)
	assert.Equal(t, []any{map[string]any{"mensagem": "only one"}}, res.Details)
	assert.Equal(t, map[string]any{"nome": "Admin"}, res.EntityData)
}

func TestNormalizeExplicitError(t *testing.T) {
	n := sectorNormalizer()

	res := n.Normalize(map[string]any{"mensagemErro": "Setor inexistente", "erro": "true"})
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.ErrorCount)
	assert.Equal(t, "Setor inexistente", res.Message)

	res = n.Normalize(map[string]any{"erro": map[string]any{"codigo": "1"}})
	assert.False(t, res.Success)
	assert.Equal(t, msgUnknownError, res.Message)
}

func TestNormalizeSilentResponseIsSuccess(t *testing.T) {
	res := sectorNormalizer().Normalize(map[string]any{"anything": "else"})

	assert.True(t, res.Success)
	assert.Equal(t, msgSuccess, res.Message)
	assert.Equal(t, 0, res.ErrorCount)
	assert.Equal(t, map[string]any{"anything": "else"}, res.RawResponse)

	assert.True(t, sectorNormalizer().Normalize(nil).Success)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := sectorNormalizer()
	raw := map[string]any{
		"SetorRetorno": map[string]any{
			"informacaoGeral": map[string]any{
				"numeroErros": "1",
				"mensagem":    "fail",
				"mensagemOperacaoDetalheList": []any{
					map[string]any{"mensagem": "a"},
					map[string]any{"mensagem": "b"},
				},
			},
		},
	}

	assert.Equal(t, n.Normalize(raw), n.Normalize(raw))
}
