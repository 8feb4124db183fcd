package catalog

import "bizsaver/internal/models"

// defaultEntries returns the built-in offer table: 20+ realistic business
// offers across the five categories. Prices are indicative monthly base costs
// in EUR, reviewed manually.
func defaultEntries() []Entry {
	return []Entry{

		// ═══════════════════════════════════════════════════════
		// ENERGIA
		// ═══════════════════════════════════════════════════════
		{
			ID: "eni-business-flex", Categoria: models.CategoriaEnergia,
			Fornitore: "Eni Plenitude", NomeOfferta: "Business Flex Luce",
			TipoOfferta: "Luce business variabile", CostoMensileBase: 9.5, VincoloMesi: 12,
			LinkOfferta:    "https://www.eniplenitude.com",
			Note:           "Prezzo energia indicizzato ingrosso, ideale per consumi stabili.",
			TagPredefinito: models.TagEquilibrata,
		},
		{
			ID: "eni-business-fissa", Categoria: models.CategoriaEnergia,
			Fornitore: "Eni Plenitude", NomeOfferta: "Business Fissa 24",
			TipoOfferta: "Luce business a prezzo fisso", CostoMensileBase: 10.2, VincoloMesi: 24,
			LinkOfferta:    "https://www.eniplenitude.com",
			Note:           "Prezzo fisso 24 mesi, stabilità su budget energetico.",
			TagPredefinito: models.TagPremium,
		},
		{
			ID: "sorgenia-next-business", Categoria: models.CategoriaEnergia,
			Fornitore: "Sorgenia", NomeOfferta: "Next Energy Business",
			TipoOfferta: "Luce business green", CostoMensileBase: 8.9, VincoloMesi: 12,
			LinkOfferta:    "https://www.sorgenia.it",
			Note:           "Energia 100% rinnovabile, gestione completamente online.",
			TagPredefinito: models.TagGreen,
		},
		{
			ID: "illumia-business-smart", Categoria: models.CategoriaEnergia,
			Fornitore: "Illumia", NomeOfferta: "Business Smart",
			TipoOfferta: "Luce business indicizzata", CostoMensileBase: 9.1, VincoloMesi: 12,
			LinkOfferta:    "https://www.illumia.it",
			Note:           "Offerta agile per PMI con consumi medi.",
			TagPredefinito: models.TagEquilibrata,
		},

		// ═══════════════════════════════════════════════════════
		// INTERNET
		// ═══════════════════════════════════════════════════════
		{
			ID: "fastweb-fibra-business", Categoria: models.CategoriaInternet,
			Fornitore: "Fastweb", NomeOfferta: "Fibra Business",
			TipoOfferta: "Fibra FTTH", CostoMensileBase: 28.0, VincoloMesi: 24,
			LinkOfferta:    "https://www.fastweb.it",
			Note:           "Fibra fino a 1 Gbps, modem incluso, assistenza dedicata.",
			TagPredefinito: models.TagPremium,
		},
		{
			ID: "tim-impresa-semplice", Categoria: models.CategoriaInternet,
			Fornitore: "TIM", NomeOfferta: "Impresa Semplice Fibra",
			TipoOfferta: "Fibra FTTC", CostoMensileBase: 26.0, VincoloMesi: 24,
			LinkOfferta:    "https://www.tim.it",
			Note:           "Buon compromesso prezzo/prestazioni, brand solido.",
			TagPredefinito: models.TagEquilibrata,
		},
		{
			ID: "vodafone-business-fibra", Categoria: models.CategoriaInternet,
			Fornitore: "Vodafone", NomeOfferta: "Business Fibra Ready",
			TipoOfferta: "Fibra FTTH", CostoMensileBase: 27.5, VincoloMesi: 24,
			LinkOfferta:    "https://www.vodafone.it",
			Note:           "Fibra top prestazioni, ideale per uffici multi-device.",
			TagPredefinito: models.TagPremium,
		},
		{
			ID: "eolo-aziende-fwa", Categoria: models.CategoriaInternet,
			Fornitore: "Eolo", NomeOfferta: "Eolo Ufficio",
			TipoOfferta: "FWA", CostoMensileBase: 24.0, VincoloMesi: 12,
			LinkOfferta:    "https://www.eolo.it",
			Note:           "Soluzione valida dove la fibra non arriva.",
			TagPredefinito: models.TagFlessibile,
		},

		// ═══════════════════════════════════════════════════════
		// TELEFONIA MOBILE
		// ═══════════════════════════════════════════════════════
		{
			ID: "iliad-business-unlimited", Categoria: models.CategoriaTelefoniaMobile,
			Fornitore: "Iliad Business", NomeOfferta: "Unlimited Business",
			TipoOfferta: "Mobile flat", CostoMensileBase: 9.99,
			LinkOfferta:    "https://www.iliad.it",
			Note:           "Minuti/SMS illimitati, tanti GB, nessun vincolo.",
			TagPredefinito: models.TagEquilibrata,
		},
		{
			ID: "vodafone-red-business", Categoria: models.CategoriaTelefoniaMobile,
			Fornitore: "Vodafone", NomeOfferta: "Red Business",
			TipoOfferta: "Mobile aziendale", CostoMensileBase: 14.99, VincoloMesi: 24,
			LinkOfferta:    "https://www.vodafone.it",
			Note:           "Assistenza dedicata e priorità rete.",
			TagPredefinito: models.TagPremium,
		},
		{
			ID: "tim-business-mobile", Categoria: models.CategoriaTelefoniaMobile,
			Fornitore: "TIM", NomeOfferta: "TIM Business Mobile",
			TipoOfferta: "Mobile aziendale", CostoMensileBase: 12.99, VincoloMesi: 12,
			LinkOfferta:    "https://www.tim.it",
			Note:           "Offerta equilibrata per flotte aziendali.",
			TagPredefinito: models.TagEquilibrata,
		},
		{
			ID: "poste-mobile-professionisti", Categoria: models.CategoriaTelefoniaMobile,
			Fornitore: "PosteMobile", NomeOfferta: "PM Ufficio",
			TipoOfferta: "Mobile low cost", CostoMensileBase: 7.99,
			LinkOfferta:    "https://www.postemobile.it",
			Note:           "Per chi vuole solo chiamate e pochi GB a basso costo.",
			TagPredefinito: models.TagMassimoRisparmio,
		},

		// ═══════════════════════════════════════════════════════
		// ASSICURAZIONI (aziendali, non moto)
		// ═══════════════════════════════════════════════════════
		{
			ID: "unipol-rc-aziendale", Categoria: models.CategoriaAssicurazioni,
			Fornitore: "UnipolSai", NomeOfferta: "RC Azienda Smart",
			TipoOfferta: "RC aziendale", CostoMensileBase: 45.0, VincoloMesi: 12,
			LinkOfferta:    "https://www.unipolsai.it",
			Note:           "Copertura ampia per attività di servizi.",
			TagPredefinito: models.TagEquilibrata,
		},
		{
			ID: "allianz-ufficio", Categoria: models.CategoriaAssicurazioni,
			Fornitore: "Allianz", NomeOfferta: "Allianz Ufficio",
			TipoOfferta: "Assicurazione immobile", CostoMensileBase: 40.0, VincoloMesi: 12,
			LinkOfferta:    "https://www.allianz.it",
			Note:           "Buon compromesso tra premio e coperture.",
			TagPredefinito: models.TagEquilibrata,
		},
		{
			ID: "genertel-rc-professionale", Categoria: models.CategoriaAssicurazioni,
			Fornitore: "Genertel", NomeOfferta: "RC Professionale Online",
			TipoOfferta: "RC professionale", CostoMensileBase: 32.0, VincoloMesi: 12,
			LinkOfferta:    "https://www.genertel.it",
			Note:           "Gestione full online, premio competitivo.",
			TagPredefinito: models.TagMassimoRisparmio,
		},
		{
			ID: "reale-mutua-premium", Categoria: models.CategoriaAssicurazioni,
			Fornitore: "Reale Mutua", NomeOfferta: "Business Premium",
			TipoOfferta: "Pacchetto completo aziendale", CostoMensileBase: 55.0, VincoloMesi: 12,
			LinkOfferta:    "https://www.realemutua.it",
			Note:           "Pacchetto completo per aziende con rischio medio-alto.",
			TagPredefinito: models.TagPremium,
		},

		// ═══════════════════════════════════════════════════════
		// NOLEGGIO AUTO
		// ═══════════════════════════════════════════════════════
		{
			ID: "leaseplan-small-business", Categoria: models.CategoriaNoleggioAuto,
			Fornitore: "LeasePlan", NomeOfferta: "Small Business 36",
			TipoOfferta: "Noleggio 36 mesi 20.000 km/anno", CostoMensileBase: 380.0, VincoloMesi: 36,
			LinkOfferta:    "https://www.leaseplan.com",
			Note:           "Tutto incluso (RC, Kasko, bollo, manutenzione).",
			TagPredefinito: models.TagEquilibrata,
		},
		{
			ID: "ald-business-flex", Categoria: models.CategoriaNoleggioAuto,
			Fornitore: "ALD Automotive", NomeOfferta: "Business Flex 24",
			TipoOfferta: "Noleggio 24 mesi 15.000 km/anno", CostoMensileBase: 360.0, VincoloMesi: 24,
			LinkOfferta:    "https://www.aldautomotive.it",
			Note:           "Durata più breve, buona flessibilità.",
			TagPredefinito: models.TagFlessibile,
		},
		{
			ID: "arval-green-ev", Categoria: models.CategoriaNoleggioAuto,
			Fornitore: "Arval", NomeOfferta: "Green EV Business",
			TipoOfferta: "Noleggio elettrico 36 mesi", CostoMensileBase: 390.0, VincoloMesi: 36,
			LinkOfferta:    "https://www.arval.it",
			Note:           "Solo veicoli elettrici, adatta a chi vuole immagine green.",
			TagPredefinito: models.TagGreen,
		},
		{
			ID: "leasys-economy", Categoria: models.CategoriaNoleggioAuto,
			Fornitore: "Leasys", NomeOfferta: "Economy 48",
			TipoOfferta: "Noleggio 48 mesi 20.000 km/anno", CostoMensileBase: 340.0, VincoloMesi: 48,
			LinkOfferta:    "https://www.leasys.com",
			Note:           "Costo più basso, ma vincolo lungo.",
			TagPredefinito: models.TagMassimoRisparmio,
		},
	}
}
