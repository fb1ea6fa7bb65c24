package soc

import "github.com/nexconsult/soc-api/internal/config"

// Search type values understood by the SOC services.
const (
	SearchBySOCCode = "CODIGO_SOC"
	SearchByCode    = "CODIGO"
	SearchByRHCode  = "CODIGO_RH"
)

// Kind identifies a managed resource type.
type Kind string

const (
	KindCompany Kind = "company"
	KindUnit    Kind = "unit"
	KindSector  Kind = "sector"
	KindRole    Kind = "role"
)

// Operations names the remote operations of a resource.
type Operations struct {
	Create string
	Update string
	Delete string
	Query  string
}

// All returns every operation name.
func (o Operations) All() []string {
	return []string{o.Create, o.Update, o.Delete, o.Query}
}

// Settings is the immutable slice of configuration the mapper needs.
type Settings struct {
	Username            string
	MainCompanyCode     string
	ResponsibleCode     string
	DefaultCompanyCode  string
	FallbackCompanyCode string
	AccessKey           string
	ExposeRawResponse   bool
}

// SettingsFromConfig extracts mapper settings from the service configuration.
func SettingsFromConfig(c config.SOCConfig) Settings {
	return Settings{
		Username:            c.Username,
		MainCompanyCode:     c.MainCompanyCode,
		ResponsibleCode:     c.ResponsibleCode,
		DefaultCompanyCode:  c.DefaultCompanyCode,
		FallbackCompanyCode: c.FallbackCompanyCode,
		AccessKey:           c.AccessKey,
		ExposeRawResponse:   c.ExposeRawResponse,
	}
}

type ruleKind int

const (
	rulePlain     ruleKind = iota // value or default
	ruleCode                      // stringified, "0" when absent
	ruleName                      // nome/name, generated when blank
	ruleActive                    // bool as given, true otherwise
	ruleConst                     // always the default
	ruleTrimmed                   // trimmed text, omitted when blank
	ruleAddress                   // endereco flattened to its street
	ruleIdentity                  // identity block
)

// rule maps one vendor field. Local lists the accepted caller keys in
// priority order; it defaults to the vendor name.
type rule struct {
	vendor string
	kind   ruleKind
	local  []string
	def    func(Settings) any
}

func (r rule) keys() []string {
	if len(r.local) > 0 {
		return r.local
	}
	return []string{r.vendor}
}

func value(v any) func(Settings) any {
	return func(Settings) any { return v }
}

func fallbackCompany(s Settings) any { return orNil(s.FallbackCompanyCode) }
func defaultCompany(s Settings) any  { return orNil(s.DefaultCompanyCode) }

// Resource is the declarative description of one managed resource.
type Resource struct {
	Kind Kind
	// Label is used in log lines and error messages.
	Label string
	// Record is the vendor element wrapping the resource fields.
	Record     string
	Operations Operations
	// ResultKeys are tried in order to find the return block.
	ResultKeys []string
	// EntityKeys name the entity payload inside the return block.
	EntityKeys []string
	// NamePrefix is used when a create payload carries no name.
	NamePrefix string
	// UpdateSearchFallback applies when an update names neither code nor RH code.
	UpdateSearchFallback string
	// AccessKey adds chaveAcesso to the identity block.
	AccessKey bool

	create []rule
	lookup []rule
	query  []rule
}

var roleResource = &Resource{
	Kind:                 KindRole,
	Label:                "role",
	Record:               "cargo",
	Operations:           Operations{Create: "incluirCargo", Update: "alterarCargo", Delete: "excluirCargo", Query: "consultarCargo"},
	ResultKeys:           []string{"CargoRetorno", "RoleReturn"},
	EntityKeys:           []string{"dadosCargoWsVo", "cargo"},
	NamePrefix:           "CARGO TESTE",
	UpdateSearchFallback: SearchByCode,
	create: []rule{
		{vendor: "codigoEmpresa", kind: rulePlain},
		{vendor: "tipoBuscaEmpresa", kind: rulePlain, def: value(SearchBySOCCode)},
		{vendor: "codigo", kind: ruleCode},
		{vendor: "tipoBusca", kind: rulePlain, def: value(SearchByCode)},
		{vendor: "nome", kind: ruleName},
		{vendor: "ativo", kind: ruleActive},
		{vendor: "atualizaDescricaoRequisitosCargoPeloCbo", kind: ruleConst, def: value(false)},
		{vendor: "criarHistoricoDescricao", kind: ruleConst, def: value(false)},
		{vendor: "gfip", kind: rulePlain, def: value("1")},
		{vendor: "identificacaoWsVo", kind: ruleIdentity},
		{vendor: "funcao", kind: ruleTrimmed},
		{vendor: "codigoRh", kind: ruleTrimmed},
	},
	lookup: []rule{
		{vendor: "codigo", kind: rulePlain},
		{vendor: "codigoEmpresa", kind: rulePlain, def: fallbackCompany},
		{vendor: "tipoBuscaEmpresa", kind: rulePlain, def: value(SearchBySOCCode)},
		{vendor: "tipoBusca", kind: rulePlain, def: value(SearchByCode)},
		{vendor: "codigoRh", kind: rulePlain},
		{vendor: "identificacaoWsVo", kind: ruleIdentity},
	},
	query: []rule{
		{vendor: "codigo", kind: rulePlain},
		{vendor: "codigoEmpresa", kind: rulePlain, def: fallbackCompany},
		{vendor: "tipoBuscaEmpresa", kind: rulePlain, def: value(SearchBySOCCode)},
		{vendor: "tipoBusca", kind: rulePlain, def: value(SearchByCode)},
		{vendor: "codigoRh", kind: rulePlain},
		{vendor: "nome", kind: rulePlain},
		{vendor: "identificacaoWsVo", kind: ruleIdentity},
	},
}

var sectorResource = &Resource{
	Kind:       KindSector,
	Label:      "sector",
	Record:     "setor",
	Operations: Operations{Create: "incluirSetor", Update: "alterarSetor", Delete: "excluirSetor", Query: "consultarSetor"},
	ResultKeys: []string{"SetorRetorno", "SectorReturn"},
	EntityKeys: []string{"dadosSetorWsVo", "setor"},
	NamePrefix: "SETOR TESTE",
	create: []rule{
		{vendor: "codigoEmpresa", kind: rulePlain, def: fallbackCompany},
		{vendor: "tipoBuscaEmpresa", kind: rulePlain, def: value(SearchBySOCCode)},
		{vendor: "codigo", kind: ruleCode},
		{vendor: "nome", kind: ruleName},
		{vendor: "descricao", kind: rulePlain, def: value("Setor criado via API Middleware")},
		{vendor: "ativo", kind: ruleActive},
		{vendor: "codigoRh", kind: rulePlain},
		{vendor: "codigoUnidade", kind: rulePlain},
		{vendor: "tipoBuscaUnidade", kind: rulePlain},
		{vendor: "identificacaoWsVo", kind: ruleIdentity},
	},
	lookup: []rule{
		{vendor: "codigo", kind: rulePlain},
		{vendor: "codigoEmpresa", kind: rulePlain, def: fallbackCompany},
		{vendor: "tipoBuscaEmpresa", kind: rulePlain, def: value(SearchBySOCCode)},
		{vendor: "codigoRh", kind: rulePlain},
		{vendor: "tipoBusca", kind: rulePlain},
		{vendor: "identificacaoWsVo", kind: ruleIdentity},
	},
	query: []rule{
		{vendor: "codigo", kind: rulePlain},
		{vendor: "codigoEmpresa", kind: rulePlain, def: fallbackCompany},
		{vendor: "tipoBuscaEmpresa", kind: rulePlain, def: value(SearchBySOCCode)},
		{vendor: "codigoRh", kind: rulePlain},
		{vendor: "nome", kind: rulePlain},
		{vendor: "tipoBusca", kind: rulePlain},
		{vendor: "identificacaoWsVo", kind: ruleIdentity},
	},
}

var unitResource = &Resource{
	Kind:       KindUnit,
	Label:      "unit",
	Record:     "unidade",
	Operations: Operations{Create: "incluirUnidade", Update: "alterarUnidade", Delete: "excluirUnidade", Query: "consultarUnidade"},
	ResultKeys: []string{"UnidadeRetorno", "UnitReturn"},
	EntityKeys: []string{"dadosUnidadeWsVo", "unidade"},
	NamePrefix: "UNIDADE TESTE",
	AccessKey:  true,
	create: []rule{
		{vendor: "codigoEmpresa", kind: rulePlain, def: defaultCompany},
		{vendor: "tipoBuscaEmpresa", kind: rulePlain, def: value(SearchBySOCCode)},
		{vendor: "codigo", kind: ruleCode},
		{vendor: "codigoRh", kind: rulePlain, local: []string{"codigoRh", "rh"}},
		{vendor: "nome", kind: ruleName},
		{vendor: "razaoSocial", kind: rulePlain},
		{vendor: "codigoMunicipio", kind: rulePlain},
		{vendor: "endereco", kind: ruleAddress},
		{vendor: "bairro", kind: rulePlain},
		{vendor: "cidade", kind: rulePlain},
		{vendor: "estado", kind: rulePlain},
		{vendor: "cep", kind: rulePlain},
		{vendor: "numero", kind: rulePlain},
		{vendor: "complemento", kind: rulePlain},
		{vendor: "cnpj_cei", kind: rulePlain},
		{vendor: "codigoCnpjCei", kind: rulePlain},
		{vendor: "codigoCpf", kind: rulePlain},
		{vendor: "codigoCaepf", kind: rulePlain},
		{vendor: "codigoCno", kind: rulePlain},
		{vendor: "codigoCnae", kind: rulePlain},
		{vendor: "inscricaoEstadual", kind: rulePlain},
		{vendor: "inscricaoMunicipal", kind: rulePlain},
		{vendor: "telefoneCat", kind: rulePlain},
		{vendor: "ativo", kind: ruleActive},
		{vendor: "identificacaoWsVo", kind: ruleIdentity},
	},
	lookup: []rule{
		{vendor: "codigo", kind: rulePlain},
		{vendor: "codigoEmpresa", kind: rulePlain, def: defaultCompany},
		{vendor: "codigoRh", kind: rulePlain},
		{vendor: "tipoBusca", kind: rulePlain},
		{vendor: "identificacaoWsVo", kind: ruleIdentity},
	},
	query: []rule{
		{vendor: "codigo", kind: rulePlain},
		{vendor: "codigoEmpresa", kind: rulePlain, def: defaultCompany},
		{vendor: "codigoRh", kind: rulePlain},
		{vendor: "nome", kind: rulePlain},
		{vendor: "razaoSocial", kind: rulePlain},
		{vendor: "tipoBusca", kind: rulePlain},
		{vendor: "identificacaoWsVo", kind: ruleIdentity},
	},
}

// Company envelopes are shaped differently and built in company.go.
var companyResource = &Resource{
	Kind:       KindCompany,
	Label:      "company",
	Record:     "empresa",
	Operations: Operations{Create: "incluirEmpresa", Update: "alterarEmpresa", Delete: "excluirEmpresa", Query: "consultarEmpresa"},
	ResultKeys: []string{"EmpresaRetorno", "CompanyReturn"},
	EntityKeys: []string{"dadosEmpresaWsVo", "empresa"},
}

// Resources lists every managed resource.
func Resources() []*Resource {
	return []*Resource{companyResource, unitResource, sectorResource, roleResource}
}

// Lookup returns the resource of the given kind.
func Lookup(kind Kind) (*Resource, bool) {
	for _, r := range Resources() {
		if r.Kind == kind {
			return r, true
		}
	}
	return nil, false
}

// Company returns the company resource.
func Company() *Resource { return companyResource }

// Unit returns the unit resource.
func Unit() *Resource { return unitResource }

// Sector returns the sector resource.
func Sector() *Resource { return sectorResource }

// Role returns the role resource.
func Role() *Resource { return roleResource }
