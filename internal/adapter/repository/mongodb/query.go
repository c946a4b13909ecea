package mongodb

import (
	"regexp"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// buildListingFilter translates the optional search fields into a MongoDB
// query predicate. Absent fields impose no constraint; supplied filters
// combine with logical AND. User input is regex-escaped before being
// embedded in a pattern.
func buildListingFilter(f domain.ListingFilter) bson.M {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Type != "" {
		query["type"] = f.Type
	}
	if f.City != "" {
		query["city"] = containsPattern(f.City)
	}
	if f.Area != "" {
		query["area"] = containsPattern(f.Area)
	}
	if f.Pincode != "" {
		query["pincode"] = prefixPattern(f.Pincode)
	}
	if f.Query != "" {
		pattern := containsPattern(f.Query)
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"location": pattern},
			bson.M{"category": pattern},
			bson.M{"city": pattern},
			bson.M{"area": pattern},
			bson.M{"pincode": pattern},
		}
	}
	return query
}

// containsPattern matches the term case-insensitively anywhere in the field.
func containsPattern(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// prefixPattern matches the term case-insensitively at the start of the
// field, supporting partial pincode entry.
func prefixPattern(term string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(term), Options: "i"}
}
