package domain

import "sort"

// Dropdown vocabularies for the complaint form. These are static
// configuration data, not a rule engine: the area-of-concern to
// sub-category mapping is a fixed lookup table.

// ComplaintOptions bundles every dropdown vocabulary the client needs.
type ComplaintOptions struct {
	Statuses       []ComplaintStatus   `json:"statuses"`
	Priorities     []ComplaintPriority `json:"priorities"`
	Sources        []string            `json:"sources"`
	ComplaintTypes []string            `json:"complaintTypes"`
	AreasOfConcern []string            `json:"areasOfConcern"`
	SubCategories  map[string][]string `json:"subCategories"`
}

var complaintSources = []string{
	"Phone",
	"Email",
	"Field Visit",
	"Dealer",
	"Customer Portal",
}

var complaintTypes = []string{
	"Product Quality",
	"Packaging",
	"Delivery",
	"Billing",
	"Service",
}

var subCategoriesByArea = map[string][]string{
	"Quality": {
		"Damaged Material",
		"Off Specification",
		"Contamination",
		"Shelf Life",
	},
	"Logistics": {
		"Late Delivery",
		"Short Supply",
		"Wrong Material",
		"Transit Damage",
	},
	"Commercial": {
		"Pricing Dispute",
		"Invoice Error",
		"Credit Note Pending",
	},
	"Application": {
		"Mixing Issue",
		"Setting Time",
		"Surface Finish",
	},
}

// Options returns the full dropdown vocabulary set.
func Options() ComplaintOptions {
	areas := make([]string, 0, len(subCategoriesByArea))
	for area := range subCategoriesByArea {
		areas = append(areas, area)
	}
	sort.Strings(areas)
	return ComplaintOptions{
		Statuses: []ComplaintStatus{
			ComplaintStatusNew,
			ComplaintStatusInProgress,
			ComplaintStatusResolved,
			ComplaintStatusClosed,
		},
		Priorities: []ComplaintPriority{
			ComplaintPriorityLow,
			ComplaintPriorityMedium,
			ComplaintPriorityHigh,
		},
		Sources:        complaintSources,
		ComplaintTypes: complaintTypes,
		AreasOfConcern: areas,
		SubCategories:  subCategoriesByArea,
	}
}

// SubCategoriesFor returns the sub-categories mapped to an area of concern.
func SubCategoriesFor(area string) []string {
	return subCategoriesByArea[area]
}
