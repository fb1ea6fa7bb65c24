package soc

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Mapper turns local payloads into vendor envelopes.
//
// The mapper never rejects input. A missing mandatory field travels to the
// SOC service as absent and its rejection becomes the failure signal.
type Mapper struct {
	settings Settings
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewMapper creates a mapper bound to settings.
func NewMapper(settings Settings, log logrus.FieldLogger) *Mapper {
	return &Mapper{settings: settings, log: log, now: time.Now}
}

// WithClock returns a copy of the mapper using now for generated names.
func (m *Mapper) WithClock(now func() time.Time) *Mapper {
	c := *m
	c.now = now
	return &c
}

// Settings returns the settings the mapper resolves defaults from.
func (m *Mapper) Settings() Settings {
	return m.settings
}

// Create builds the inclusion envelope for r.
func (m *Mapper) Create(r *Resource, p Payload) *Object {
	if r.Kind == KindCompany {
		return m.companyCreate(p)
	}
	return NewObject().Set(r.Record, m.createRecord(r, p))
}

// Update builds the alteration envelope for r. It reuses the inclusion
// record and resolves the search type.
func (m *Mapper) Update(r *Resource, p Payload) *Object {
	if r.Kind == KindCompany {
		return m.companyUpdate(p)
	}
	rec := m.createRecord(r, p)
	rec.Set("tipoBusca", resolveSearchType(p, r.UpdateSearchFallback))
	return NewObject().Set(r.Record, rec)
}

// Delete builds the reduced deletion envelope for r.
func (m *Mapper) Delete(r *Resource, p Payload) *Object {
	if r.Kind == KindCompany {
		return m.companyLookup("ExcluirEmpresaWsVo", p)
	}
	return NewObject().Set(r.Record, m.apply(r, r.lookup, p))
}

// Query builds the reduced query envelope for r.
func (m *Mapper) Query(r *Resource, p Payload) *Object {
	if r.Kind == KindCompany {
		return m.companyLookup("ConsultarEmpresaWsVo", p)
	}
	return NewObject().Set(r.Record, m.apply(r, r.query, p))
}

func (m *Mapper) createRecord(r *Resource, p Payload) *Object {
	return m.apply(r, r.create, p)
}

func (m *Mapper) apply(r *Resource, rules []rule, p Payload) *Object {
	rec := NewObject()
	for _, ru := range rules {
		rec.Set(ru.vendor, m.resolve(r, ru, p))
	}
	return rec
}

func (m *Mapper) resolve(r *Resource, ru rule, p Payload) any {
	var def any
	if ru.def != nil {
		def = ru.def(m.settings)
	}

	switch ru.kind {
	case ruleCode:
		v, ok := p.First(ru.keys()...)
		if !ok {
			return "0"
		}
		return FormatValue(v)
	case ruleName:
		if name := p.Text("nome", "name"); name != "" {
			return name
		}
		return m.generateName(r)
	case ruleActive:
		if b, ok := p["ativo"].(bool); ok {
			return b
		}
		return true
	case ruleConst:
		return def
	case ruleTrimmed:
		if s := p.Text(ru.keys()...); s != "" {
			return s
		}
		return nil
	case ruleAddress:
		return flattenAddress(p["endereco"])
	case ruleIdentity:
		return m.identity(p, r.AccessKey, true)
	default:
		if v, ok := p.First(ru.keys()...); ok {
			return v
		}
		return def
	}
}

func (m *Mapper) generateName(r *Resource) string {
	name := fmt.Sprintf("%s %d", r.NamePrefix, m.now().UnixMilli())
	m.log.WithFields(logrus.Fields{
		"resource":       r.Label,
		"generated_name": name,
	}).Warn("Payload has no name, generating a placeholder")
	return name
}

// identity builds the identity block. Caller values override configuration.
func (m *Mapper) identity(p Payload, accessKey, homologation bool) *Object {
	id := NewObject()
	if accessKey {
		id.Set("chaveAcesso", p.Or("chaveAcesso", orNil(m.settings.AccessKey)))
	}
	id.Set("codigoEmpresaPrincipal", p.Or("codigoEmpresaPrincipal", orNil(m.settings.MainCompanyCode)))
	id.Set("codigoResponsavel", p.Or("codigoResponsavel", orNil(m.settings.ResponsibleCode)))
	id.Set("codigoUsuario", p.Or("codigoUsuario", orNil(m.settings.Username)))
	if homologation {
		id.Set("homologacao", truthy(p["homologacao"]))
	}
	return id
}

// resolveSearchType applies the update priority: explicit value, then code,
// then RH code, then the resource fallback. An empty fallback leaves the
// field absent.
func resolveSearchType(p Payload, fallback string) any {
	switch {
	case p.Text("tipoBusca") != "":
		return p["tipoBusca"]
	case p.Text("codigo") != "":
		return SearchByCode
	case p.Text("codigoRh") != "":
		return SearchByRHCode
	case fallback != "":
		return fallback
	default:
		return nil
	}
}

// flattenAddress replaces an address object carrying a street with the
// street itself. Anything else passes through untouched.
func flattenAddress(v any) any {
	if addr, ok := v.(map[string]any); ok {
		if street, ok := addr["logradouro"]; ok && street != nil && street != "" && street != false {
			return street
		}
	}
	return v
}

// isDocument reports whether declared names the given document type.
func isDocument(declared any, want string) bool {
	s, ok := declared.(string)
	return ok && strings.EqualFold(strings.TrimSpace(s), want)
}
