package soc

import (
	"math"
	"strconv"
	"strings"
)

const (
	msgSuccess       = "Operation completed successfully"
	msgFailure       = "Operation failed without a message from SOC"
	msgUnknownError  = "Unknown error"
	infoKey          = "informacaoGeral"
	detailListKey    = "mensagemOperacaoDetalheList"
	genericReturnKey = "return"
)

// Result is the uniform outcome of every remote operation.
type Result struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	MessageCode string `json:"messageCode,omitempty"`
	ErrorCount  int    `json:"errorCount"`
	Details     []any  `json:"details"`
	EntityData  any    `json:"entityData,omitempty"`
	VendorCode  string `json:"vendorCode,omitempty"`
	RawResponse any    `json:"rawResponse,omitempty"`
}

// extractRule tries to locate the return block inside a raw response.
type extractRule func(raw map[string]any) (map[string]any, bool)

func byKey(key string) extractRule {
	return func(raw map[string]any) (map[string]any, bool) {
		m, ok := raw[key].(map[string]any)
		return m, ok
	}
}

func itself(raw map[string]any) (map[string]any, bool) {
	return raw, true
}

// Normalizer reshapes raw responses of one result family.
type Normalizer struct {
	rules      []extractRule
	entityKeys []string
}

// NewNormalizer creates a normalizer trying resultKeys, then the generic
// "return" key, then the response itself.
func NewNormalizer(resultKeys, entityKeys []string) *Normalizer {
	rules := make([]extractRule, 0, len(resultKeys)+2)
	for _, k := range resultKeys {
		rules = append(rules, byKey(k))
	}
	rules = append(rules, byKey(genericReturnKey), itself)
	return &Normalizer{rules: rules, entityKeys: entityKeys}
}

// Normalize produces a Result from raw. It is a pure function of raw.
func (n *Normalizer) Normalize(raw map[string]any) *Result {
	if raw == nil {
		raw = map[string]any{}
	}

	var ret map[string]any
	for _, rule := range n.rules {
		if m, ok := rule(raw); ok {
			ret = m
			break
		}
	}

	res := &Result{
		Success:     true,
		Message:     msgSuccess,
		Details:     []any{},
		RawResponse: raw,
	}

	info, hasInfo := ret[infoKey].(map[string]any)
	switch {
	case hasInfo:
		count, present, valid := errorCount(info["numeroErros"])
		switch {
		case !present:
			res.Success, res.ErrorCount = true, 0
		case !valid:
			res.Success, res.ErrorCount = false, 1
		default:
			res.Success, res.ErrorCount = count == 0, count
		}
		if msg := text(info["mensagem"]); msg != "" {
			res.Message = msg
		} else if !res.Success {
			res.Message = msgFailure
		}
		res.MessageCode = text(info["codigoMensagem"])
		res.Details = asList(info[detailListKey])
	case hasError(ret):
		res.Success = false
		res.ErrorCount = 1
		res.Message = firstText(ret, "mensagemErro", "erro")
		if res.Message == "" {
			res.Message = msgUnknownError
		}
	}

	for _, k := range n.entityKeys {
		if v, ok := ret[k]; ok && v != nil {
			res.EntityData = v
			break
		}
	}
	if code, ok := ret["codigo"]; ok && code != nil {
		if _, nested := code.(map[string]any); !nested {
			res.VendorCode = FormatValue(code)
		}
	}

	return res
}

// errorCount parses the vendor error counter. XML responses carry it as text.
func errorCount(v any) (count int, present, valid bool) {
	switch t := v.(type) {
	case nil:
		return 0, false, true
	case int:
		return t, true, true
	case int64:
		if t < math.MinInt || t > math.MaxInt {
			return 0, true, false
		}
		return int(t), true, true
	case float64:
		if t != math.Trunc(t) || t < math.MinInt || t >= math.MaxInt {
			return 0, true, false
		}
		return int(t), true, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false, true
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, true, false
		}
		return n, true, true
	default:
		return 0, true, false
	}
}

func hasError(ret map[string]any) bool {
	for _, k := range []string{"erro", "mensagemErro"} {
		switch v := ret[k].(type) {
		case nil:
		case string:
			if v != "" {
				return true
			}
		case bool:
			if v {
				return true
			}
		default:
			return true
		}
	}
	return false
}

func firstText(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := text(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case map[string]any, []any:
		return ""
	default:
		return strings.TrimSpace(FormatValue(t))
	}
}

// asList normalizes repeated XML elements, which decode as a single value
// when there is only one.
func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []any:
		return t
	default:
		return []any{t}
	}
}
