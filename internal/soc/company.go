package soc

import (
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/soc-api/internal/utils"
)

// Company envelopes carry the identifying fields at the root and the editable
// data in a nested dadosEmpresaWsVo block.

func (m *Mapper) companyCreate(p Payload) *Object {
	m.checkDocument(p)
	vo := NewObject().
		Set("identificacaoWsVo", m.identity(p, false, false)).
		Set("dadosEmpresaWsVo", companyData(p, true))
	return NewObject().Set("IncluirEmpresaWsVo", vo)
}

func (m *Mapper) companyUpdate(p Payload) *Object {
	m.checkDocument(p)
	active := true
	if b, ok := p["ativo"].(bool); ok {
		active = b
	}

	// The local identifier is always a SOC code unless the caller says otherwise.
	var searchType any = SearchBySOCCode
	if p.Text("tipoBusca") != "" {
		searchType = p["tipoBusca"]
	}

	vo := NewObject().
		Set("codigo", companyCode(p)).
		Set("tipoBusca", searchType).
		Set("ativo", active).
		Set("dadosEmpresaWsVo", companyData(p, false)).
		Set("identificacaoWsVo", m.identity(p, false, false))
	return NewObject().Set("AlterarEmpresaWsVo", vo)
}

func (m *Mapper) companyLookup(wrapper string, p Payload) *Object {
	vo := NewObject().
		Set("codigo", companyCode(p)).
		Set("tipoBusca", p.Or("tipoBusca", SearchBySOCCode)).
		Set("identificacaoWsVo", m.identity(p, false, false))
	return NewObject().Set(wrapper, vo)
}

// companyCode resolves the local identifier promoted to the root code field.
func companyCode(p Payload) any {
	v, ok := p.First("localId", "codigo")
	if !ok {
		return nil
	}
	return FormatValue(v)
}

// companyData builds dadosEmpresaWsVo. The document number goes to exactly
// one of numeroCnpj or numeroCpf depending on the declared type. On create
// the address block is always present; on update only when it names a
// municipality.
func companyData(p Payload, alwaysAddress bool) *Object {
	docType, _ := p.Value("tipoDocumento")
	number, _ := p.First("cnpj", "numeroDocumento")

	data := NewObject().
		Set("nomeAbreviado", p.Or("nomeAbreviado", nil)).
		Set("razaoSocial", p.Or("razaoSocial", nil)).
		Set("cnpjCeiCpf", docType)
	if isDocument(docType, "CNPJ") {
		data.Set("numeroCnpj", number)
	}
	if isDocument(docType, "CPF") {
		data.Set("numeroCpf", number)
	}

	address := NewObject()
	if addr, ok := p["endereco"].(map[string]any); ok {
		address.Set("codigoMunicipio", Payload(addr).Or("codigoMunicipio", nil))
	}
	if address.Len() > 0 || alwaysAddress {
		data.Set("endereco", address)
	}
	return data
}

// checkDocument warns about a document number with wrong check digits. The
// number is still forwarded as received.
func (m *Mapper) checkDocument(p Payload) {
	docType, _ := p.Value("tipoDocumento")
	v, ok := p.First("cnpj", "numeroDocumento")
	if !ok {
		return
	}

	number := FormatValue(v)
	var valid bool
	switch {
	case isDocument(docType, "CNPJ"):
		valid = utils.IsValidCNPJ(number)
	case isDocument(docType, "CPF"):
		valid = utils.IsValidCPF(number)
	default:
		return
	}

	if !valid {
		m.log.WithFields(logrus.Fields{
			"tipoDocumento": docType,
			"numero":        number,
		}).Warn("Company document has invalid check digits")
	}
}
