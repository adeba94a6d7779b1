package refdata

import "strings"

// urbanLGAs is the closed set of major-city local government areas used
// by the simulator's economic-igniter multiplier.
var urbanLGAs = map[string]bool{
	// Lagos State
	"ikeja": true, "lagos island": true, "lagos mainland": true, "surulere": true,
	"eti-osa": true, "apapa": true, "kosofe": true, "oshodi-isolo": true,
	"alimosho": true, "ajeromi-ifelodun": true, "mushin": true,
	// Abuja FCT
	"abuja municipal": true, "gwagwalada": true, "kuje": true, "abaji": true,
	"bwari": true, "kwali": true,
	// Kano State
	"kano municipal": true, "nassarawa": true, "fagge": true, "dala": true,
	"gwale": true, "tarauni": true,
	// Rivers State (Port Harcourt)
	"port harcourt": true, "obio-akpor": true, "eleme": true, "okrika": true,
	// Kaduna State
	"kaduna north": true, "kaduna south": true, "chikun": true, "igabi": true,
	// Oyo State (Ibadan)
	"ibadan north": true, "ibadan south-west": true, "ibadan north-east": true,
	"ibadan south-east": true, "ibadan north-west": true,
	// Enugu State
	"enugu north": true, "enugu south": true, "enugu east": true,
	// Anambra State (Onitsha, Awka)
	"onitsha north": true, "onitsha south": true, "awka north": true, "awka south": true,
	// Delta State (Warri, Asaba)
	"warri south": true, "warri north": true, "warri south-west": true, "oshimili south": true,
	// Edo State (Benin City)
	"oredo": true, "egor": true, "ikpoba-okha": true,
	// Abia State (Aba, Umuahia)
	"aba north": true, "aba south": true, "umuahia north": true, "umuahia south": true,
	// Plateau State (Jos)
	"jos north": true, "jos south": true, "jos east": true,
	// Benue State (Makurdi)
	"makurdi": true,
	// Cross River State (Calabar)
	"calabar municipal": true, "calabar south": true,
	// Akwa Ibom State (Uyo)
	"uyo": true,
	// Bauchi State
	"bauchi": true,
	// Borno State (Maiduguri)
	"maiduguri": true,
	// Gombe State
	"gombe": true,
	// Imo State (Owerri)
	"owerri municipal": true, "owerri north": true, "owerri west": true,
	// Kwara State (Ilorin)
	"ilorin west": true, "ilorin east": true, "ilorin south": true,
	// Niger State (Minna)
	"minna": true,
	// Ondo State (Akure)
	"akure south": true, "akure north": true,
	// Osun State (Osogbo)
	"osogbo": true,
	// Ogun State (Abeokuta)
	"abeokuta south": true, "abeokuta north": true,
	// Sokoto State
	"sokoto north": true, "sokoto south": true,
	// Yobe State (Damaturu)
	"damaturu": true,
	// Zamfara State (Gusau)
	"gusau": true,
}

// IsUrbanLGA reports whether an LGA belongs to the urban set.
func IsUrbanLGA(lga string) bool {
	return urbanLGAs[strings.ToLower(strings.TrimSpace(lga))]
}
