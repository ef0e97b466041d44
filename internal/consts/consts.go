package consts

const (
	FARADAY = 96487  // Faraday constant as used by Ecker 2015 (C/mol)
	GAS     = 8.314  // Ideal gas constant (J/K/mol)
	KELVIN  = 273.15 // Kelvin temperature (K)
	TREF    = 296.0  // Ecker 2015 measurement temperature (K)
)
