package analytics

// Static geographic lookup tables for the pilot districts in the North
// Central and North Western dry-zone rice belt. Maintained by hand until
// the survey department feed is wired in.

// gnNeighbors maps a GN division to its adjacent GN divisions
var gnNeighbors = map[string][]string{
	"Mahailuppallama": {"Senapura", "Halmillawa"},
	"Senapura":        {"Mahailuppallama", "Kekirawa East"},
	"Halmillawa":      {"Mahailuppallama", "Ganewalpola"},
	"Kekirawa East":   {"Senapura", "Ganewalpola", "Kekirawa West"},
	"Kekirawa West":   {"Kekirawa East", "Ganewalpola"},
	"Ganewalpola":     {"Halmillawa", "Kekirawa East", "Kekirawa West"},
	"Thalawa":         {"Nochchiyagama", "Senapura"},
	"Nochchiyagama":   {"Thalawa", "Rajanganaya"},
	"Rajanganaya":     {"Nochchiyagama", "Thambuttegama"},
	"Thambuttegama":   {"Rajanganaya", "Thalawa"},
	"Galgamuwa":       {"Ambanpola", "Ehetuwewa"},
	"Ambanpola":       {"Galgamuwa", "Kotawehera"},
	"Ehetuwewa":       {"Galgamuwa", "Ambanpola"},
	"Kotawehera":      {"Ambanpola", "Nikaweratiya"},
	"Nikaweratiya":    {"Kotawehera", "Wariyapola"},
	"Wariyapola":      {"Nikaweratiya"},
	"Medirigiriya":    {"Hingurakgoda", "Lankapura"},
	"Hingurakgoda":    {"Medirigiriya", "Thamankaduwa"},
	"Lankapura":       {"Medirigiriya", "Welikanda"},
	"Thamankaduwa":    {"Hingurakgoda", "Welikanda"},
	"Welikanda":       {"Lankapura", "Thamankaduwa"},
}

// GnNeighbors returns the adjacent GN divisions for a division, nil when
// the division is not in the table
func GnNeighbors(gnDivision string) []string {
	return gnNeighbors[gnDivision]
}

// districtNeighbors maps a district to its bordering districts
var districtNeighbors = map[string][]string{
	"Anuradhapura": {"Vavuniya", "Trincomalee", "Polonnaruwa", "Matale", "Kurunegala", "Puttalam", "Mannar"},
	"Polonnaruwa":  {"Trincomalee", "Batticaloa", "Ampara", "Badulla", "Matale", "Anuradhapura"},
	"Kurunegala":   {"Puttalam", "Anuradhapura", "Matale", "Kandy", "Kegalle", "Gampaha"},
	"Puttalam":     {"Mannar", "Anuradhapura", "Kurunegala", "Gampaha"},
	"Matale":       {"Anuradhapura", "Polonnaruwa", "Badulla", "Kandy", "Kurunegala"},
	"Kandy":        {"Matale", "Badulla", "Nuwara Eliya", "Kegalle", "Kurunegala"},
	"Ampara":       {"Batticaloa", "Polonnaruwa", "Badulla", "Monaragala"},
	"Batticaloa":   {"Trincomalee", "Polonnaruwa", "Ampara"},
	"Trincomalee":  {"Vavuniya", "Anuradhapura", "Polonnaruwa", "Batticaloa"},
}

// DistrictNeighbors returns the bordering districts for a district
func DistrictNeighbors(district string) []string {
	return districtNeighbors[district]
}

// expectedGnDivisions is the GN division count per district used by the
// coverage index. Counts follow the administrative divisions register.
var expectedGnDivisions = map[string]int{
	"Anuradhapura": 694,
	"Polonnaruwa":  295,
	"Kurunegala":   1610,
	"Puttalam":     548,
	"Matale":       545,
	"Kandy":        1188,
	"Ampara":       503,
	"Batticaloa":   346,
	"Trincomalee":  230,
}

// defaultExpectedGn is used for districts missing from the register
const defaultExpectedGn = 400

// ExpectedGnDivisions returns the expected GN division count for a district
func ExpectedGnDivisions(district string) int {
	if n, ok := expectedGnDivisions[district]; ok {
		return n
	}
	return defaultExpectedGn
}
