package registry

// Default returns the built-in registry: the Central European and
// Africa/MENA country sets with their trusted domains, the OGP theme
// lexicon, and the shared domain heuristics.
func Default() *Registry {
	return &Registry{
		Countries: defaultCountries(),
		Themes:    defaultThemes(),
		IntlDomains: []string{
			"opengovpartnership.org",
			"europa.eu",
			"coe.int",
			"oecd.org",
			"worldbank.org",
			"un.org",
			"osce.org",
			"transparency.org",
			"eiti.org",
		},
		GovHints: []string{
			"gov.", ".gov", "gouv.", "parlament", "parliament",
			"senat", "vlada", "presidence", "assemblee",
		},
		RegionalQueries: []string{
			"ECOWAS",
			"Maghreb",
			"Western Balkans",
		},
	}
}

func defaultCountries() []Country {
	return []Country{
		{
			Name:     "Austria",
			AltNames: []string{"Österreich"},
			Locale:   Locale{Lang: "de", Geo: "AT", Ceid: "AT:de"},
			TLDs:     []string{".at"},
			Verified: []string{"parlament.gv.at", "bundeskanzleramt.gv.at", "data.gv.at", "gv.at"},
			Media:    []string{"orf.at", "derstandard.at", "kurier.at", "diepresse.com", "profil.at", "wienerzeitung.at"},
		},
		{
			Name:     "Bosnia and Herzegovina",
			AltNames: []string{"Bosnia", "BiH", "Bosna i Hercegovina"},
			Locale:   Locale{Lang: "bs", Geo: "BA", Ceid: "BA:bs"},
			TLDs:     []string{".ba"},
			Verified: []string{"parlament.ba", "gov.ba"},
			Media:    []string{"klix.ba", "avaz.ba", "nezavisne.com", "rtrs.tv", "bhrt.ba", "radiosarajevo.ba"},
		},
		{
			Name:     "Czech Republic",
			AltNames: []string{"Czechia", "Česko", "Česká republika"},
			Locale:   Locale{Lang: "cs", Geo: "CZ", Ceid: "CZ:cs"},
			TLDs:     []string{".cz"},
			Verified: []string{"vlada.cz", "psp.cz", "senat.cz", "gov.cz", "data.gov.cz"},
			Media:    []string{"seznamzpravy.cz", "denikn.cz", "novinky.cz", "idnes.cz", "aktualne.cz", "ceskenoviny.cz"},
		},
		{
			Name:     "Malta",
			Locale:   Locale{Lang: "en", Geo: "MT", Ceid: "MT:en"},
			TLDs:     []string{".mt"},
			Verified: []string{"gov.mt", "parlament.mt", "data.gov.mt"},
			Media:    []string{"timesofmalta.com", "maltatoday.com.mt", "newsbook.com.mt", "tvmnews.mt", "lovinmalta.com"},
		},
		{
			Name:     "Serbia",
			AltNames: []string{"Srbija"},
			Locale:   Locale{Lang: "sr", Geo: "RS", Ceid: "RS:sr"},
			TLDs:     []string{".rs"},
			Verified: []string{"gov.rs", "parlament.rs"},
			Media:    []string{"rts.rs", "n1info.rs", "b92.net", "danas.rs", "nova.rs", "politika.rs"},
		},
		{
			Name:     "Slovakia",
			AltNames: []string{"Slovensko"},
			Locale:   Locale{Lang: "sk", Geo: "SK", Ceid: "SK:sk"},
			TLDs:     []string{".sk"},
			Verified: []string{"gov.sk", "nrsr.sk", "data.gov.sk"},
			Media:    []string{"sme.sk", "dennikn.sk", "aktuality.sk", "pravda.sk", "teraz.sk", "tasr.sk"},
		},
		{
			Name:     "Morocco",
			AltNames: []string{"Maroc"},
			Locale:   Locale{Lang: "en", Geo: "MA", Ceid: "MA:en"},
			TLDs:     []string{".ma"},
			Verified: []string{"maroc.ma"},
			Media:    []string{"mapnews.ma"},
		},
		{
			Name:     "Benin",
			AltNames: []string{"Bénin"},
			Locale:   Locale{Lang: "fr", Geo: "BJ", Ceid: "BJ:fr"},
			TLDs:     []string{".bj"},
			Verified: []string{"gouv.bj"},
		},
		{
			Name:     "Côte d'Ivoire",
			AltNames: []string{"Ivory Coast"},
			Locale:   Locale{Lang: "fr", Geo: "CI", Ceid: "CI:fr"},
			TLDs:     []string{".ci"},
			Verified: []string{"gouv.ci"},
		},
		{
			Name:     "Senegal",
			AltNames: []string{"Sénégal"},
			Locale:   Locale{Lang: "fr", Geo: "SN", Ceid: "SN:fr"},
			TLDs:     []string{".sn"},
			Verified: []string{"gouv.sn"},
		},
		{
			Name:     "Tunisia",
			AltNames: []string{"Tunisie"},
			Locale:   Locale{Lang: "fr", Geo: "TN", Ceid: "TN:fr"},
			TLDs:     []string{".tn"},
			Verified: []string{"presidence.tn"},
		},
		{
			Name:   "Burkina Faso",
			Locale: Locale{Lang: "fr", Geo: "BF", Ceid: "BF:fr"},
			TLDs:   []string{".bf"},
		},
		{
			Name:   "Ghana",
			Locale: Locale{Lang: "en", Geo: "GH", Ceid: "GH:en"},
			TLDs:   []string{".gh"},
		},
		{
			Name:   "Liberia",
			Locale: Locale{Lang: "en", Geo: "LR", Ceid: "LR:en"},
			TLDs:   []string{".lr"},
		},
		{
			Name:     "Jordan",
			AltNames: []string{"Jordanie"},
			Locale:   Locale{Lang: "en", Geo: "JO", Ceid: "JO:en"},
			TLDs:     []string{".jo"},
		},
	}
}

func defaultThemes() []Theme {
	return []Theme{
		{
			Name: "Access to Information",
			Triggers: []string{
				"access to information", "freedom of information",
				"informationsfreiheit", "prístup k informáciám",
				"pristup informacijama", "accès à l'information",
			},
		},
		{
			Name: "Anti-Corruption",
			Triggers: []string{
				"anti-corruption", "anticorruption", "corruption",
				"asset declaration", "whistleblower",
				"protikorupcia", "antikorupcija", "protikorupční",
			},
		},
		{
			Name: "Open Data",
			Triggers: []string{
				"open data", "offene daten", "données ouvertes",
			},
		},
		{
			Name: "Budget & Procurement",
			Triggers: []string{
				"budget transparency", "procurement", "open contracting",
				"beneficial ownership", "marchés publics",
			},
		},
		{
			Name: "Civic Space",
			Triggers: []string{
				"civic space", "press freedom", "participation",
				"co-creation", "espace civique",
			},
		},
		{
			Name: "Digital Government",
			Triggers: []string{
				"digital government", "e-government", "digitalisierung",
			},
		},
		{
			Name: "Justice",
			Triggers: []string{
				"judicial reform", "rule of law", "réforme judiciaire",
			},
		},
		{
			Name: "Open Government",
			Triggers: []string{
				"open government", "transparency", "accountability",
				"governance", "decentralization", "transparentnost",
				"transparenz", "transparence", "OGP",
			},
		},
	}
}
