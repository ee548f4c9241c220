package model

import "fmt"

// RegionNames maps the 26 two-digit administrative region codes to their
// names. The last two characters of every plate are one of these codes.
// The set is fixed; codes are never added, removed or translated.
var RegionNames = map[string]string{
	"01": "Kinshasa",
	"02": "Kongo Central",
	"03": "Kwilu",
	"04": "Kwango",
	"05": "Mai-Ndombe",
	"06": "Kasai",
	"07": "Kasai Central",
	"08": "Kasai Oriental",
	"09": "Sankuru",
	"10": "Maniema",
	"11": "Sud-Kivu",
	"12": "Nord-Kivu",
	"13": "Ituri",
	"14": "Lualaba",
	"15": "Haut-Katanga",
	"16": "Tshopo",
	"17": "Bas-Uele",
	"18": "Haut-Uele",
	"19": "Mongala",
	"20": "Nord-Ubangi",
	"21": "Sud-Ubangi",
	"22": "Equateur",
	"23": "Tshuapa",
	"24": "Lomami",
	"25": "Haut-Lomami",
	"26": "Tanganyika",
}

// IsValidRegionCode reports whether code is one of the 26 region codes.
func IsValidRegionCode(code string) bool {
	_, ok := RegionNames[code]
	return ok
}

// RegionCodes returns the region codes in ascending order.
func RegionCodes() []string {
	codes := make([]string, 0, len(RegionNames))
	for i := 1; i <= len(RegionNames); i++ {
		codes = append(codes, fmt.Sprintf("%02d", i))
	}
	return codes
}
