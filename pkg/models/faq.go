package models

// DefaultFAQCategory is assigned when the model omits a category.
const DefaultFAQCategory = "General"

// FAQ is a single generated question/answer pair. IDs are unique within one
// job's result set; categories are free-form and used only for grouping.
type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// TrainingResult is the output of content generation: a site summary plus
// categorized FAQs.
type TrainingResult struct {
	Summary string `json:"summary"`
	FAQs    []FAQ  `json:"faqs"`
}
