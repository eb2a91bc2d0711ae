package ratetable

// Default returns the built-in tables.
func Default() *Tables {
	return &Tables{
		Currency: NewOrdered(
			Entry[float64]{"USD", 1.0},
			Entry[float64]{"EUR", 1.1739},
			Entry[float64]{"GBP", 1.3245},
			Entry[float64]{"KES", 0.0077},
			Entry[float64]{"CAD", 0.7425},
			Entry[float64]{"AUD", 0.6789},
			Entry[float64]{"JPY", 0.00687},
			Entry[float64]{"CHF", 1.1234},
			Entry[float64]{"ZAR", 0.0554},
			Entry[float64]{"NGN", 0.00062},
			Entry[float64]{"INR", 0.01199},
			Entry[float64]{"SGD", 0.7653},
			Entry[float64]{"HKD", 0.1282},
			Entry[float64]{"CNY", 0.1405},
		),
		Geography:     NewVocabulary(pairs(geographyPairs)...),
		Peril:         NewVocabulary(pairs(perilPairs)...),
		Business:      NewVocabulary(pairs(businessPairs)...),
		GeographyRisk: NewRiskTable(geographyRisk, 5.0),
		PerilRisk:     NewRiskTable(perilRisk, 1.0),
		BusinessRisk:  NewRiskTable(businessRisk, 1.0),
	}
}

// pairs turns a flat variant, label, variant, label... list into entries.
func pairs(flat []string) []Entry[string] {
	out := make([]Entry[string], 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		out = append(out, Entry[string]{Key: flat[i], Value: flat[i+1]})
	}
	return out
}

var geographyPairs = []string{
	// US states
	"california", "CA", "texas", "TX", "florida", "FL", "new york", "NY",
	"illinois", "IL", "pennsylvania", "PA", "ohio", "OH", "georgia", "GA",
	"north carolina", "NC", "michigan", "MI", "new jersey", "NJ",
	"virginia", "VA", "washington", "WA", "arizona", "AZ", "massachusetts", "MA",
	"tennessee", "TN", "indiana", "IN", "missouri", "MO", "maryland", "MD",
	"wisconsin", "WI", "colorado", "CO", "minnesota", "MN", "south carolina", "SC",
	"alabama", "AL", "louisiana", "LA", "kentucky", "KY", "oregon", "OR",
	"oklahoma", "OK", "connecticut", "CT", "utah", "UT", "iowa", "IA",
	"nevada", "NV", "arkansas", "AR", "mississippi", "MS", "kansas", "KS",
	"new mexico", "NM", "nebraska", "NE", "west virginia", "WV",
	"idaho", "ID", "hawaii", "HI", "new hampshire", "NH", "maine", "ME",
	"montana", "MT", "rhode island", "RI", "delaware", "DE", "south dakota", "SD",
	"north dakota", "ND", "alaska", "AK", "vermont", "VT", "wyoming", "WY",

	// International
	"united kingdom", "UK", "great britain", "UK", "england", "UK",
	"scotland", "UK", "wales", "UK", "northern ireland", "UK",
	"canada", "CA", "mexico", "MX", "germany", "DE", "france", "FR",
	"italy", "IT", "spain", "ES", "netherlands", "NL", "belgium", "BE",
	"switzerland", "CH", "austria", "AT", "sweden", "SE", "norway", "NO",
	"denmark", "DK", "finland", "FI", "australia", "AU", "japan", "JP",
	"south korea", "KR", "china", "CN", "singapore", "SG", "hong kong", "HK",
	"india", "IN", "brazil", "BR", "argentina", "AR", "chile", "CL",
	"south africa", "ZA", "kenya", "KE", "nigeria", "NG", "ghana", "GH",
	"egypt", "EG", "morocco", "MA", "thailand", "TH", "malaysia", "MY",
	"indonesia", "ID", "philippines", "PH", "vietnam", "VN", "taiwan", "TW",
}

var perilPairs = []string{
	// Fire
	"fire risk", "Fire", "fire", "Fire", "fire & explosion", "Fire",
	"fire/explosion", "Fire", "fire and explosion", "Fire",
	"combustion", "Fire", "ignition", "Fire", "conflagration", "Fire",

	// Natural catastrophe
	"earthquake", "Earthquake", "eq", "Earthquake", "seismic", "Earthquake",
	"tremor", "Earthquake", "quake", "Earthquake",
	"hurricane", "Hurricane", "typhoon", "Hurricane", "cyclone", "Hurricane",
	"tropical storm", "Hurricane", "tropical cyclone", "Hurricane",
	"windstorm", "Windstorm", "wind", "Windstorm", "tornado", "Tornado",
	"twister", "Tornado", "severe weather", "Windstorm",
	"flood", "Flood", "flooding", "Flood", "inundation", "Flood",
	"flash flood", "Flood", "river flood", "Flood",
	"tsunami", "Tsunami", "tidal wave", "Tsunami",
	"hail", "Hail", "hailstorm", "Hail", "hailstone", "Hail",
	"lightning", "Lightning", "lightning strike", "Lightning",
	"wildfire", "Wildfire", "forest fire", "Wildfire", "bush fire", "Wildfire",
	"brushfire", "Wildfire", "grassfire", "Wildfire",

	// Property
	"property", "Property", "property damage", "Property",
	"all risks", "All Risks", "all risk", "All Risks",
	"named perils", "Named Perils", "specified perils", "Named Perils",
	"theft", "Theft", "burglary", "Theft", "robbery", "Theft",
	"vandalism", "Vandalism", "malicious damage", "Vandalism",
	"water damage", "Water Damage", "pipe burst", "Water Damage",

	// Liability
	"liability", "Liability", "third party liability", "Liability",
	"public liability", "Public Liability", "product liability", "Product Liability",
	"professional liability", "Professional Liability",
	"errors and omissions", "Professional Liability", "e&o", "Professional Liability",
	"directors and officers", "D&O", "d&o", "D&O",
	"employment practices", "EPLI", "epli", "EPLI",

	// Marine
	"marine", "Marine", "cargo", "Marine Cargo", "hull", "Marine Hull",
	"marine cargo", "Marine Cargo", "marine hull", "Marine Hull",
	"vessel", "Marine Hull", "ship", "Marine Hull",

	// Aviation
	"aviation", "Aviation", "aircraft", "Aviation", "aviation hull", "Aviation Hull",
	"aviation liability", "Aviation Liability", "airline", "Aviation",

	// Energy
	"energy", "Energy", "oil & gas", "Energy", "petroleum", "Energy",
	"offshore", "Energy", "onshore", "Energy", "pipeline", "Energy",
	"refinery", "Energy", "drilling", "Energy",

	// Specialty
	"terrorism", "Terrorism", "political risk", "Political Risk",
	"cyber", "Cyber", "cyber liability", "Cyber", "cyber attack", "Cyber",
	"data breach", "Cyber", "privacy", "Cyber",
	"environmental", "Environmental", "pollution", "Environmental",
	"contamination", "Environmental", "environmental liability", "Environmental",
}

// pharmaceutical appears twice; the later Healthcare label wins while the key
// keeps its first position.
var businessPairs = []string{
	"chemical", "Chemical", "petrochemical", "Chemical", "pharmaceutical", "Chemical",
	"chemical plant", "Chemical", "chemical processing", "Chemical",
	"manufacturing", "Manufacturing", "factory", "Manufacturing", "production", "Manufacturing",
	"automotive", "Manufacturing", "electronics", "Manufacturing",
	"energy", "Energy", "power", "Energy", "utility", "Energy", "power plant", "Energy",
	"renewable energy", "Energy", "solar", "Energy", "wind farm", "Energy",
	"oil_gas", "Oil & Gas", "oil and gas", "Oil & Gas", "petroleum", "Oil & Gas",
	"upstream", "Oil & Gas", "downstream", "Oil & Gas", "midstream", "Oil & Gas",
	"transportation", "Transportation", "logistics", "Transportation", "shipping", "Transportation",
	"trucking", "Transportation", "rail", "Transportation", "courier", "Transportation",
	"real_estate", "Real Estate", "property", "Real Estate", "commercial", "Real Estate",
	"residential", "Real Estate", "office building", "Real Estate",
	"healthcare", "Healthcare", "hospital", "Healthcare", "medical", "Healthcare",
	"clinic", "Healthcare", "pharmaceutical", "Healthcare",
	"technology", "Technology", "tech", "Technology", "software", "Technology",
	"it services", "Technology", "data center", "Technology", "cloud", "Technology",
	"retail", "Retail", "consumer", "Retail", "shopping center", "Retail",
	"restaurant", "Retail", "hospitality", "Hospitality", "hotel", "Hospitality",
	"financial", "Financial Services", "banking", "Financial Services",
	"insurance", "Financial Services", "investment", "Financial Services",
	"agriculture", "Agriculture", "farming", "Agriculture", "agribusiness", "Agriculture",
	"food processing", "Agriculture", "livestock", "Agriculture",
	"mining", "Mining", "extraction", "Mining", "coal", "Mining", "metals", "Mining",
	"construction", "Construction", "building", "Construction", "infrastructure", "Construction",
	"aviation", "Aviation", "airline", "Aviation", "airport", "Aviation",
	"marine", "Marine", "maritime", "Marine", "port", "Marine", "shipyard", "Marine",
}

var geographyRisk = map[string]float64{
	// Catastrophe-exposed
	"CA": 9.0, "FL": 9.5, "TX": 8.5, "LA": 9.0, "HI": 8.0,
	"AK": 7.5, "WA": 7.0, "OR": 7.0, "NV": 6.5, "AZ": 6.5,
	"JP": 9.0, "PH": 9.5, "ID": 8.5, "CL": 8.0, "TW": 8.5,
	// Moderate
	"NY": 6.0, "NJ": 6.0, "CT": 6.0, "MA": 5.5, "SC": 7.5,
	"NC": 7.0, "GA": 7.0, "AL": 7.5, "MS": 8.0, "TN": 6.0,
}

var perilRisk = map[string]float64{
	"Earthquake": 1.5, "Hurricane": 1.4, "Flood": 1.3, "Tsunami": 1.6,
	"Tornado": 1.3, "Wildfire": 1.2, "Terrorism": 1.4, "Cyber": 1.3,
	"Fire": 1.1, "Lightning": 1.0, "Theft": 0.9, "Property": 1.0,
	"Liability": 1.1, "Professional Liability": 1.2, "D&O": 1.2,
}

var businessRisk = map[string]float64{
	"Chemical": 1.6, "Oil & Gas": 1.5, "Energy": 1.4, "Mining": 1.4,
	"Aviation": 1.3, "Marine": 1.2, "Manufacturing": 1.1,
	"Transportation": 1.2, "Construction": 1.3, "Healthcare": 0.9,
	"Technology": 0.7, "Financial Services": 0.6, "Real Estate": 0.8,
	"Retail": 0.7, "Agriculture": 0.9,
}
