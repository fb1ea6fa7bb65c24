package exportdata

// Units returns the distinct units of a hierarchy report in report order.
func Units(hierarchy []Row) []Row {
	seen := make(map[string]struct{})
	out := make([]Row, 0)
	for _, r := range hierarchy {
		code := r.String("CODIGO_UNIDADE")
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, Row{
			"CODIGO":         r["CODIGO_UNIDADE"],
			"NOME":           r["NOME_UNIDADE"],
			"CODIGO_UNIDADE": r["CODIGO_UNIDADE"],
			"NOME_UNIDADE":   r["NOME_UNIDADE"],
		})
	}
	return out
}

// Sectors returns the distinct sectors of a hierarchy report, optionally
// restricted to one unit.
func Sectors(hierarchy []Row, unit string) []Row {
	seen := make(map[string]struct{})
	out := make([]Row, 0)
	for _, r := range hierarchy {
		if unit != "" && r.String("CODIGO_UNIDADE") != unit {
			continue
		}
		code := r.String("CODIGO_SETOR")
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, Row{
			"CODIGO":         r["CODIGO_SETOR"],
			"NOME":           r["NOME_SETOR"],
			"CODIGO_SETOR":   r["CODIGO_SETOR"],
			"NOME_SETOR":     r["NOME_SETOR"],
			"CODIGO_UNIDADE": r["CODIGO_UNIDADE"],
		})
	}
	return out
}

// Roles returns the distinct roles of a hierarchy report, optionally
// restricted to a unit and a sector.
func Roles(hierarchy []Row, unit, sector string) []Row {
	seen := make(map[string]struct{})
	out := make([]Row, 0)
	for _, r := range hierarchy {
		if unit != "" && r.String("CODIGO_UNIDADE") != unit {
			continue
		}
		if sector != "" && r.String("CODIGO_SETOR") != sector {
			continue
		}
		code := r.String("CODIGO_CARGO")
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, Row{
			"CODIGO":         r["CODIGO_CARGO"],
			"NOME":           r["NOME_CARGO"],
			"CODIGO_CARGO":   r["CODIGO_CARGO"],
			"NOME_CARGO":     r["NOME_CARGO"],
			"CODIGO_UNIDADE": r["CODIGO_UNIDADE"],
			"CODIGO_SETOR":   r["CODIGO_SETOR"],
		})
	}
	return out
}

// ByCompany keeps the rows whose CODIGOEMPRESA column equals company.
func ByCompany(rows []Row, company string) []Row {
	out := make([]Row, 0)
	for _, r := range rows {
		if r.String("CODIGOEMPRESA") == company {
			out = append(out, r)
		}
	}
	return out
}
