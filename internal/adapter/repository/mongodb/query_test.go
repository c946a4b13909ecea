package mongodb

import (
	"regexp"
	"testing"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildListingFilter(t *testing.T) {
	t.Run("EmptyFilterMatchesEverything", func(t *testing.T) {
		query := buildListingFilter(domain.ListingFilter{})
		assert.Empty(t, query)
	})

	t.Run("CategoryAndTypeAreExactMatches", func(t *testing.T) {
		query := buildListingFilter(domain.ListingFilter{Category: "Plumbing", Type: "service"})
		assert.Equal(t, "Plumbing", query["category"])
		assert.Equal(t, "service", query["type"])
	})

	t.Run("CityIsCaseInsensitiveContains", func(t *testing.T) {
		query := buildListingFilter(domain.ListingFilter{City: "bengaluru"})
		rx, ok := query["city"].(primitive.Regex)
		require.True(t, ok)
		assert.Equal(t, "i", rx.Options)

		re := regexp.MustCompile("(?i)" + rx.Pattern)
		assert.True(t, re.MatchString("Bengaluru"))
		assert.True(t, re.MatchString("Greater Bengaluru"))
	})

	t.Run("PincodeIsPrefixMatch", func(t *testing.T) {
		query := buildListingFilter(domain.ListingFilter{Pincode: "5600"})
		rx, ok := query["pincode"].(primitive.Regex)
		require.True(t, ok)

		re := regexp.MustCompile("(?i)" + rx.Pattern)
		assert.True(t, re.MatchString("560066"))
		assert.False(t, re.MatchString("123456"), "a pincode containing the term elsewhere must not match")
	})

	t.Run("FreeTextSearchesSevenFields", func(t *testing.T) {
		query := buildListingFilter(domain.ListingFilter{Query: "drill"})
		or, ok := query["$or"].(bson.A)
		require.True(t, ok)
		require.Len(t, or, 7)

		fields := make([]string, 0, len(or))
		for _, clause := range or {
			m := clause.(bson.M)
			for field := range m {
				fields = append(fields, field)
			}
		}
		assert.ElementsMatch(t, []string{"title", "description", "location", "category", "city", "area", "pincode"}, fields)
	})

	t.Run("EscapesRegexMetacharacters", func(t *testing.T) {
		query := buildListingFilter(domain.ListingFilter{City: "a.c"})
		rx := query["city"].(primitive.Regex)

		re := regexp.MustCompile("(?i)" + rx.Pattern)
		assert.True(t, re.MatchString("a.c"))
		assert.False(t, re.MatchString("abc"), "the dot must be treated literally")
	})

	t.Run("FiltersCombineWithAnd", func(t *testing.T) {
		query := buildListingFilter(domain.ListingFilter{Query: "repair", Category: "Plumbing", City: "Pune"})
		assert.Len(t, query, 3)
		assert.Contains(t, query, "$or")
		assert.Contains(t, query, "category")
		assert.Contains(t, query, "city")
	})
}
