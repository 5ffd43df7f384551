// Package taxonomy holds the curated country and category labels shown first
// in every filter. The tables are built once at init and never mutated; all
// accessors return copies.
package taxonomy

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Group is one labelled block of curated values (an <optgroup> in the UI).
type Group struct {
	Label string   `json:"label"`
	Items []string `json:"items"`
}

var countryGroups = []Group{
	{Label: "Northeast Asia", Items: []string{
		"China", "Hong Kong SAR", "Macao SAR", "Taiwan", "Japan", "South Korea", "North Korea", "Mongolia",
	}},
	{Label: "Southeast Asia", Items: []string{
		"Brunei", "Cambodia", "Indonesia", "Laos", "Malaysia", "Myanmar", "Philippines", "Singapore",
		"Thailand", "Timor-Leste", "Vietnam",
	}},
	{Label: "South Asia", Items: []string{
		"India", "Pakistan", "Bangladesh", "Sri Lanka", "Nepal", "Bhutan", "Maldives", "Afghanistan",
	}},
	{Label: "Central Asia", Items: []string{
		"Kazakhstan", "Uzbekistan", "Kyrgyzstan", "Tajikistan", "Turkmenistan",
	}},
	{Label: "West Asia / Middle East", Items: []string{
		"United Arab Emirates", "Saudi Arabia", "Qatar", "Oman", "Bahrain", "Kuwait",
		"Jordan", "Lebanon", "Israel", "Palestine", "Iran", "Iraq", "Turkey", "Syria", "Yemen",
		"Georgia", "Armenia", "Azerbaijan",
	}},
}

var categoryGroups = []Group{
	{Label: "Teaching & Academic", Items: []string{
		"Early Years Teaching", "Primary Teaching", "Secondary Teaching", "IB (PYP/MYP/DP)", "IGCSE", "EAL / ESL",
		"K-12 Leadership", "University Faculty", "University Professional", "Research",
	}},
	{Label: "International & Recruitment", Items: []string{
		"Senior Management", "International Office", "Recruitment & Admissions", "Student Recruitment",
		"Agent Relations", "TNE / Partnerships", "Sales / Partnerships", "Business Development",
		"Alumni & Advancement", "Global Mobility / Study Abroad",
	}},
	{Label: "Student Support & Services", Items: []string{
		"Student Services & Welfare", "Counselling / Pastoral", "Career Services / Employability",
		"Scholarships / Financial Aid",
	}},
	{Label: "Exams & Learning Support", Items: []string{
		"Exams & Assessment", "Test Centre / IELTS", "Library / Learning Resources",
	}},
	{Label: "Operations & Enablers", Items: []string{
		"Program / Project Management", "Admin & Operations", "Finance", "HR", "IT / EdTech",
		"Quality Assurance / Compliance", "Data & CRM / Analytics", "Marketing & Communications",
		"Digital Marketing", "Events",
	}},
}

var (
	curatedCountries  = index(countryGroups)
	curatedCategories = index(categoryGroups)
)

func index(groups []Group) map[string]string {
	m := make(map[string]string)
	for _, g := range groups {
		for _, item := range g.Items {
			if prev, dup := m[item]; dup {
				panic("taxonomy: " + item + " listed in both " + prev + " and " + g.Label)
			}
			m[item] = g.Label
		}
	}
	return m
}

// CountryGroups returns the curated country regions in display order.
func CountryGroups() []Group { return cloneGroups(countryGroups) }

// CategoryGroups returns the curated category groups in display order.
func CategoryGroups() []Group { return cloneGroups(categoryGroups) }

// Countries returns every curated country label, region by region.
func Countries() []string { return flatten(countryGroups) }

// Categories returns every curated category label, group by group.
func Categories() []string { return flatten(categoryGroups) }

// IsCuratedCountry reports whether label is one of the curated countries.
func IsCuratedCountry(label string) bool {
	_, ok := curatedCountries[label]
	return ok
}

// IsCuratedCategory reports whether label is one of the curated categories.
func IsCuratedCategory(label string) bool {
	_, ok := curatedCategories[label]
	return ok
}

// RegionOf returns the group label a curated country belongs to, or "".
func RegionOf(country string) string { return curatedCountries[country] }

// GroupOf returns the group label a curated category belongs to, or "".
func GroupOf(category string) string { return curatedCategories[category] }

// ExtraCountries returns the distinct non-empty values that are not curated
// countries, in locale order.
func ExtraCountries(values []string) []string { return extras(values, IsCuratedCountry) }

// ExtraCategories returns the distinct non-empty values that are not curated
// categories, in locale order.
func ExtraCategories(values []string) []string { return extras(values, IsCuratedCategory) }

func extras(values []string, curated func(string) bool) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if v == "" || curated(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	collate.New(language.English).SortStrings(out)
	return out
}

func flatten(groups []Group) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Items...)
	}
	return out
}

func cloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Label: g.Label, Items: append([]string(nil), g.Items...)}
	}
	return out
}
