package banking

// bankCodeLengths describes, per country, how many leading BBAN characters
// form the national bank code.
var bankCodeLengths = map[string]int{
	"DE": 8, // Bankleitzahl
	"AT": 5, // Bankleitzahl
	"NL": 4, // four-letter bank identifier
}

// bicRegistry maps national bank codes to the institution's BIC.
// This is a curated subset of the national registries; lookups outside it
// simply report the BIC as not derivable.
var bicRegistry = map[string]map[string]string{
	"DE": {
		"10000000": "MARKDEF1100",
		"10010010": "PBNKDEFFXXX",
		"37040044": "COBADEFFXXX",
		"43060967": "GENODEM1GLS",
		"50010517": "INGDDEFFXXX",
		"60050101": "SOLADEST600",
		"70150000": "SSKMDEMMXXX",
	},
	"AT": {
		"12000": "BKAUATWW",
		"14000": "BAWAATWW",
		"20111": "GIBAATWWXXX",
		"32000": "RLNWATWW",
	},
	"NL": {
		"ABNA": "ABNANL2A",
		"INGB": "INGBNL2A",
		"RABO": "RABONL2U",
	},
}
