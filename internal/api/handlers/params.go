package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/medatlas/directory-api/internal/domain/repositories"
)

func queryInt(values url.Values, key string) int {
	n, err := strconv.Atoi(values.Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func queryFloat(values url.Values, key string) float64 {
	f, err := strconv.ParseFloat(values.Get(key), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func queryBool(values url.Values, key string) bool {
	switch strings.ToLower(values.Get(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// queryList splits a comma-separated query value into trimmed entries.
func queryList(values url.Values, key string) []string {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseSearchParams reads the combined-search filters from the query string.
func parseSearchParams(values url.Values) repositories.SearchParams {
	return repositories.SearchParams{
		Query:          strings.TrimSpace(values.Get("q")),
		Kind:           repositories.SearchKind(values.Get("type")),
		Specialties:    queryList(values, "specialties"),
		Languages:      queryList(values, "languages"),
		Accreditations: queryList(values, "accreditations"),
		City:           strings.TrimSpace(values.Get("city")),
		MinRating:      queryFloat(values, "minRating"),
		MinExperience:  queryInt(values, "minExperience"),
		MinBeds:        queryInt(values, "minBeds"),
		MinCost:        queryFloat(values, "minCost"),
		MaxCost:        queryFloat(values, "maxCost"),
		MinSuccessRate: queryFloat(values, "minSuccessRate"),
		ActiveOnly:     queryBool(values, "activeOnly"),
		Sort:           values.Get("sort"),
		Page:           queryInt(values, "page"),
		PageSize:       queryInt(values, "pageSize"),
	}
}
