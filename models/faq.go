package models

const DefaultFAQCategory = "general"

type FAQ struct {
	Base     `bson:",inline"`
	Question string `bson:"question" json:"question" validate:"required"`
	Answer   string `bson:"answer" json:"answer" validate:"required"`
	Category string `bson:"category" json:"category"`
	IsActive bool   `bson:"isActive" json:"isActive"`
	Order    int    `bson:"order" json:"order"`
}

// FAQFilter narrows FAQ listings. A nil Active lists both states.
type FAQFilter struct {
	Category string
	Active   *bool
	Search   string
}
