package tagging

// Composite geological tags that are not single elements
const (
	TagREE Tag = "REE" // rare earth elements
	TagPGE Tag = "PGE" // platinum group elements
)

// catalog is the closed set of canonical tags
var catalog = func() map[Tag]struct{} {
	symbols := []Tag{
		"H", "HE", "LI", "BE", "B", "C", "N", "O", "F", "NE",
		"NA", "MG", "AL", "SI", "P", "S", "CL", "AR", "K", "CA",
		"SC", "TI", "V", "CR", "MN", "FE", "CO", "NI", "CU", "ZN",
		"GA", "GE", "AS", "SE", "BR", "KR", "RB", "SR", "Y", "ZR",
		"NB", "MO", "TC", "RU", "RH", "PD", "AG", "CD", "IN", "SN",
		"SB", "TE", "I", "XE", "CS", "BA", "LA", "CE", "PR", "ND",
		"PM", "SM", "EU", "GD", "TB", "DY", "HO", "ER", "TM", "YB",
		"LU", "HF", "TA", "W", "RE", "OS", "IR", "PT", "AU", "HG",
		"TL", "PB", "BI", "PO", "AT", "RN", "FR", "RA", "AC", "TH",
		"PA", "U", "NP", "PU", "AM", "CM", "BK", "CF", "ES", "FM",
		"MD", "NO", "LR", "RF", "DB", "SG", "BH", "HS", "MT", "DS",
		"RG", "CN", "NH", "FL", "MC", "LV", "TS", "OG",
		TagREE, TagPGE,
	}
	m := make(map[Tag]struct{}, len(symbols))
	for _, s := range symbols {
		m[s] = struct{}{}
	}
	return m
}()

// aliases maps uppercased Turkish and English element and mineral names to
// their catalog tag. Keys are stored the way ExtractTags normalises tokens.
var aliases = map[string]Tag{
	// element names
	"ALTIN": "AU", "GOLD": "AU", "ELEKTRUM": "AU", "ELECTRUM": "AU",
	"GÜMÜŞ": "AG", "GUMUS": "AG", "SILVER": "AG",
	"BAKIR": "CU", "COPPER": "CU",
	"DEMIR": "FE", "IRON": "FE",
	"KURŞUN": "PB", "KURSUN": "PB", "LEAD": "PB",
	"ÇINKO": "ZN", "CINKO": "ZN", "ZINC": "ZN",
	"KALAY": "SN", "TIN": "SN",
	"NIKEL": "NI", "NICKEL": "NI",
	"KROM": "CR", "CHROME": "CR", "CHROMIUM": "CR",
	"MANGAN": "MN", "MANGANEZ": "MN", "MANGANESE": "MN",
	"KOBALT": "CO", "COBALT": "CO",
	"ANTIMON": "SB", "ANTIMUAN": "SB", "ANTIMONY": "SB",
	"CIVA": "HG", "MERCURY": "HG",
	"ALÜMINYUM": "AL", "ALUMINYUM": "AL", "ALUMINUM": "AL", "ALUMINIUM": "AL",
	"TUNGSTEN": "W", "VOLFRAM": "W", "WOLFRAM": "W",
	"MOLIBDEN": "MO", "MOLYBDENUM": "MO",
	"URANYUM": "U", "URANIUM": "U",
	"TORYUM": "TH", "THORIUM": "TH",
	"PLATIN": "PT", "PLATINUM": "PT",
	"PALADYUM": "PD", "PALLADIUM": "PD",
	"LITYUM": "LI", "LITHIUM": "LI",
	"BOR": "B", "BORON": "B",
	"ARSENIK": "AS", "ARSENIC": "AS",
	"KÜKÜRT": "S", "KUKURT": "S", "SULFUR": "S", "SULPHUR": "S",
	"BARYUM": "BA", "BARIUM": "BA",
	"STRONSIYUM": "SR", "STRONTIUM": "SR",
	"FLOR": "F", "FLUORINE": "F",
	"TITANYUM": "TI", "TITANIUM": "TI",
	"VANADYUM": "V", "VANADIUM": "V",
	"MAGNEZYUM": "MG", "MAGNESIUM": "MG",
	"BIZMUT": "BI", "BISMUTH": "BI",
	"KADMIYUM": "CD", "CADMIUM": "CD",
	"ZIRKONYUM": "ZR", "ZIRCONIUM": "ZR",
	"NIOBYUM": "NB", "NIOBIUM": "NB",
	"TANTAL": "TA", "TANTALUM": "TA",

	// iron minerals
	"PIRIT": "FE", "PYRITE": "FE",
	"HEMATIT": "FE", "HEMATITE": "FE",
	"MANYETIT": "FE", "MAGNETITE": "FE",
	"LIMONIT": "FE", "LIMONITE": "FE",
	"GÖTIT": "FE", "GOETHITE": "FE",
	"SIDERIT": "FE", "SIDERITE": "FE",
	"MARKAZIT": "FE", "MARCASITE": "FE",

	// base metals
	"GALEN": "PB", "GALENIT": "PB", "GALENA": "PB",
	"SERÜZIT": "PB", "CERUSSITE": "PB",
	"SFALERIT": "ZN", "SPHALERITE": "ZN",
	"SMITHSONIT": "ZN", "SMITHSONITE": "ZN",
	"KALAMIN": "ZN", "CALAMINE": "ZN",
	"KALKOPIRIT": "CU", "CHALCOPYRITE": "CU",
	"MALAHIT": "CU", "MALAKIT": "CU", "MALACHITE": "CU",
	"AZURIT": "CU", "AZURITE": "CU",
	"KALKOSIN": "CU", "CHALCOCITE": "CU",
	"BORNIT": "CU", "BORNITE": "CU",
	"KOVELIN": "CU", "COVELLITE": "CU",
	"KUPRIT": "CU", "CUPRITE": "CU",
	"PENTLANDIT": "NI", "PENTLANDITE": "NI",
	"GARNIERIT": "NI", "GARNIERITE": "NI",

	// ferroalloy and other metals
	"KASITERIT": "SN", "CASSITERITE": "SN",
	"KROMIT": "CR", "CHROMITE": "CR",
	"PIROLUZIT": "MN", "PYROLUSITE": "MN",
	"PSILOMELAN": "MN", "PSILOMELANE": "MN",
	"RODOKROZIT": "MN", "RHODOCHROSITE": "MN",
	"ZINOBER": "HG", "CINNABAR": "HG",
	"STIBNIT": "SB", "ANTIMONIT": "SB", "STIBNITE": "SB",
	"BOKSIT": "AL", "BAUXITE": "AL",
	"ŞELIT": "W", "SELIT": "W", "SCHEELITE": "W",
	"VOLFRAMIT": "W", "WOLFRAMITE": "W",
	"MOLIBDENIT": "MO", "MOLYBDENITE": "MO",
	"ARSENOPIRIT": "AS", "ARSENOPYRITE": "AS",
	"REALGAR": "AS", "ORPIMENT": "AS", "ORPIMAN": "AS",
	"RUTIL": "TI", "RUTILE": "TI",
	"ILMENIT": "TI", "ILMENITE": "TI",
	"ARJANTIT": "AG", "ARGENTIT": "AG", "ARGENTITE": "AG",
	"URANINIT": "U", "URANINITE": "U", "PITCHBLENDE": "U",
	"ZIRKON": "ZR", "ZIRCON": "ZR",

	// industrial minerals
	"BARIT": "BA", "BARITE": "BA", "BARYTE": "BA",
	"SELESTIN": "SR", "SELESTIT": "SR", "CELESTINE": "SR",
	"FLORIT": "F", "FLUORIT": "F", "FLUORITE": "F",
	"MANYEZIT": "MG", "MAGNESITE": "MG",
	"KOLEMANIT": "B", "COLEMANITE": "B",
	"ÜLEKSIT": "B", "ULEKSIT": "B", "ULEXITE": "B",
	"BORAKS": "B", "BORAX": "B", "TINKAL": "B",
	"SPODUMEN": "LI", "SPODUMENE": "LI",
	"LEPIDOLIT": "LI", "LEPIDOLITE": "LI",

	// composite groups
	"MONAZIT": TagREE, "MONAZITE": TagREE,
	"BASTNAZIT": TagREE, "BASTNAESITE": TagREE,
	"NTE": TagREE, "SPERRILIT": TagPGE, "SPERRYLITE": TagPGE,
}

// IsCatalogTag reports whether t is a canonical tag
func IsCatalogTag(t Tag) bool {
	_, ok := catalog[t]
	return ok
}
