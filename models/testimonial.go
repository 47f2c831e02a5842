package models

const DefaultRating = 5

type Testimonial struct {
	Base     `bson:",inline"`
	Name     string `bson:"name" json:"name" validate:"required"`
	Role     string `bson:"role" json:"role" validate:"required"`
	Content  string `bson:"content" json:"content" validate:"required"`
	Rating   int    `bson:"rating" json:"rating" validate:"min=1,max=5"`
	Order    int    `bson:"order" json:"order"`
	Image    *Image `bson:"image,omitempty" json:"image,omitempty"`
	IsActive bool   `bson:"isActive" json:"isActive"`
}

type TestimonialFilter struct {
	Active *bool
}
