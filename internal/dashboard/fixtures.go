// Package dashboard serves the static fixtures behind the ranking and
// subscription views. Pure data-fetch, no logic: the product has never had
// real leaderboard or billing data behind these screens.
package dashboard

// RankingEntry is one leaderboard row.
type RankingEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	University string `json:"university"`
	Province   string `json:"province"`
	Country    string `json:"country"`
	Points     int    `json:"points"`
	Badge      string `json:"badge,omitempty"`
	Streak     int    `json:"streak"`
	IsPro      bool   `json:"isPro,omitempty"`
}

// PlanFeature is one row of the free/pro comparison table.
type PlanFeature struct {
	Feature string `json:"feature"`
	Free    string `json:"free"`
	Pro     string `json:"pro"`
}

var countryRanking = []RankingEntry{
	{ID: "1", Name: "Ana García", University: "UBA", Province: "Buenos Aires", Country: "Argentina", Points: 2847, Badge: "gold", Streak: 15, IsPro: true},
	{ID: "2", Name: "Carlos Mendoza", University: "UTN", Province: "Córdoba", Country: "Argentina", Points: 2531, Badge: "silver", Streak: 12, IsPro: true},
	{ID: "3", Name: "María Rodríguez", University: "UC", Province: "Santiago", Country: "Chile", Points: 2298, Badge: "bronze", Streak: 8},
	{ID: "4", Name: "Diego López", University: "UNC", Province: "Córdoba", Country: "Argentina", Points: 1987, Streak: 6, IsPro: true},
	{ID: "5", Name: "Sofía Martín", University: "UNLP", Province: "Buenos Aires", Country: "Argentina", Points: 1764, Streak: 10},
	{ID: "6", Name: "Luis Torres", University: "UDA", Province: "Mendoza", Country: "Argentina", Points: 1532, Streak: 4, IsPro: true},
	{ID: "7", Name: "Valeria Castro", University: "UTN", Province: "Santa Fe", Country: "Argentina", Points: 1421, Streak: 7},
	{ID: "8", Name: "Roberto Silva", University: "UBA", Province: "Buenos Aires", Country: "Argentina", Points: 1298, Streak: 3, IsPro: true},
}

var provinceRanking = []RankingEntry{
	{ID: "1", Name: "Ana García", University: "UBA", Province: "Buenos Aires", Country: "Argentina", Points: 2847, Badge: "gold", Streak: 15, IsPro: true},
	{ID: "5", Name: "Sofía Martín", University: "UNLP", Province: "Buenos Aires", Country: "Argentina", Points: 1764, Badge: "silver", Streak: 10},
	{ID: "8", Name: "Roberto Silva", University: "UBA", Province: "Buenos Aires", Country: "Argentina", Points: 1298, Badge: "bronze", Streak: 3, IsPro: true},
	{ID: "9", Name: "Lucía Fernández", University: "UNLP", Province: "Buenos Aires", Country: "Argentina", Points: 987, Streak: 5},
	{ID: "10", Name: "Pedro Morales", University: "UBA", Province: "Buenos Aires", Country: "Argentina", Points: 856, Streak: 2},
}

var universityRanking = []RankingEntry{
	{ID: "1", Name: "Ana García", University: "UBA", Province: "Buenos Aires", Country: "Argentina", Points: 2847, Badge: "gold", Streak: 15, IsPro: true},
	{ID: "8", Name: "Roberto Silva", University: "UBA", Province: "Buenos Aires", Country: "Argentina", Points: 1298, Badge: "silver", Streak: 3, IsPro: true},
	{ID: "10", Name: "Pedro Morales", University: "UBA", Province: "Buenos Aires", Country: "Argentina", Points: 856, Badge: "bronze", Streak: 2},
	{ID: "11", Name: "Carmen Ruiz", University: "UBA", Province: "Buenos Aires", Country: "Argentina", Points: 743, Streak: 4},
	{ID: "12", Name: "Miguel Herrera", University: "UBA", Province: "Buenos Aires", Country: "Argentina", Points: 621, Streak: 1, IsPro: true},
}

var planComparison = []PlanFeature{
	{Feature: "Conversaciones diarias", Free: "3 como máximo", Pro: "Ilimitadas"},
	{Feature: "Generación de resúmenes", Free: "Básica", Pro: "Personalizada"},
	{Feature: "Mapas de estudio", Free: "No", Pro: "Sí, con calendario"},
	{Feature: "Ranking especial", Free: "No", Pro: "Sí, con insignia Pro"},
	{Feature: "Análisis predictivo", Free: "No", Pro: "Sí, exclusivo"},
	{Feature: "Soporte", Free: "Email básico", Pro: "Prioritario 24/7"},
}

// Ranking returns the leaderboard for the scope; unknown scopes fall back
// to the country board.
func Ranking(scope string) []RankingEntry {
	var src []RankingEntry
	switch scope {
	case "province":
		src = provinceRanking
	case "university":
		src = universityRanking
	default:
		src = countryRanking
	}
	return append([]RankingEntry(nil), src...)
}

// PlanComparison returns the free/pro feature table.
func PlanComparison() []PlanFeature {
	return append([]PlanFeature(nil), planComparison...)
}
