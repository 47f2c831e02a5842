package repository

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/codingclub/content-service/models"
)

var (
	EventSort       = bson.D{{Key: "date", Value: -1}}
	AchievementSort = bson.D{{Key: "date", Value: -1}, {Key: "isHighlighted", Value: -1}}
	OrderedSort     = bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}}
)

// containsPattern matches search as a literal, case-insensitive substring.
func containsPattern(search string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
}

func EventQuery(f models.EventFilter, page models.PageRequest, now time.Time) Query {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Upcoming {
		filter["date"] = bson.M{"$gte": now}
		filter["status"] = models.EventStatusUpcoming
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		re := containsPattern(s)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"tags": bson.M{"$in": bson.A{re}}},
		}
	}
	return Query{Filter: filter, Sort: EventSort, Page: page}
}

func AchievementQuery(f models.AchievementFilter, page models.PageRequest) Query {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Highlighted {
		filter["isHighlighted"] = true
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		re := containsPattern(s)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}
	}
	return Query{Filter: filter, Sort: AchievementSort, Page: page}
}

func FAQQuery(f models.FAQFilter, page models.PageRequest) Query {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Active != nil {
		filter["isActive"] = *f.Active
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		re := containsPattern(s)
		filter["$or"] = bson.A{
			bson.M{"question": re},
			bson.M{"answer": re},
		}
	}
	return Query{Filter: filter, Sort: OrderedSort, Page: page}
}

func TestimonialQuery(f models.TestimonialFilter, page models.PageRequest) Query {
	filter := bson.M{}
	if f.Active != nil {
		filter["isActive"] = *f.Active
	}
	return Query{Filter: filter, Sort: OrderedSort, Page: page}
}
