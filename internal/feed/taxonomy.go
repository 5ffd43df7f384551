package feed

import (
	"edujobs/aggregator/internal/model"
	"edujobs/aggregator/internal/taxonomy"
)

// TaxonomyView is what the filter controls are built from: the curated groups
// in order, followed by values seen in the data that the curated lists lack.
type TaxonomyView struct {
	Countries       []taxonomy.Group `json:"countries"`
	Categories      []taxonomy.Group `json:"categories"`
	ExtraCountries  []string         `json:"extraCountries"`
	ExtraCategories []string         `json:"extraCategories"`
}

// Taxonomy builds the view for jobs.
func Taxonomy(jobs []model.Job) TaxonomyView {
	countries := make([]string, 0, len(jobs))
	categories := make([]string, 0, len(jobs))
	for _, j := range jobs {
		countries = append(countries, j.Country)
		categories = append(categories, j.Category)
	}
	return TaxonomyView{
		Countries:       taxonomy.CountryGroups(),
		Categories:      taxonomy.CategoryGroups(),
		ExtraCountries:  taxonomy.ExtraCountries(countries),
		ExtraCategories: taxonomy.ExtraCategories(categories),
	}
}
