package law

// DefaultCatalog returns the built-in list of tracked laws in refresh order.
// Each entry points at the compiled ("compilado") text on planalto.gov.br,
// which is served as windows-1252 HTML. The list can be replaced wholesale
// via configuration without touching code.
func DefaultCatalog() []CatalogEntry {
	return []CatalogEntry{
		{LawType: "codigo-civil", URL: "http://www.planalto.gov.br/ccivil_03/leis/2002/l10406compilada.htm"},
		{LawType: "codigo-processo-civil", URL: "http://www.planalto.gov.br/ccivil_03/_ato2015-2018/2015/lei/l13105.htm"},
		{LawType: "codigo-eleitoral", URL: "http://www.planalto.gov.br/ccivil_03/leis/l4737compilado.htm"},
		{LawType: "codigo-comercial", URL: "http://www.planalto.gov.br/ccivil_03/leis/lim/lim556compilado.htm"},
		{LawType: "codigo-penal", URL: "http://www.planalto.gov.br/ccivil_03/decreto-lei/del2848compilado.htm"},
		{LawType: "constituicao-federal", URL: "http://www.planalto.gov.br/ccivil_03/constituicao/constituicao.htm"},
		{LawType: "codigo-tributario", URL: "http://www.planalto.gov.br/ccivil_03/leis/l5172compilado.htm"},
		{LawType: "clt", URL: "http://www.planalto.gov.br/ccivil_03/decreto-lei/del5452compilado.htm"},
		{LawType: "codigo-defesa-consumidor", URL: "http://www.planalto.gov.br/ccivil_03/leis/l8078compilado.htm"},
		{LawType: "estatuto-oab", URL: "http://www.planalto.gov.br/ccivil_03/leis/l8906.htm"},
		{LawType: "estatuto-pessoa-deficiencia", URL: "http://www.planalto.gov.br/ccivil_03/_ato2015-2018/2015/lei/l13146.htm"},
	}
}
