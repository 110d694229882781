package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"megawe/internal/infrastructure/cache"
	"megawe/internal/search"
)

type jobSearchCacheKeyInput struct {
	Query           string   `json:"q"`
	Location        string   `json:"loc"`
	CompanyID       string   `json:"cid"`
	Category        string   `json:"cat"`
	ExperienceLevel string   `json:"exp"`
	EmploymentTypes []string `json:"types"`
	Remote          bool     `json:"remote"`
	SalaryMin       int64    `json:"smin"`
	SalaryMax       int64    `json:"smax"`
	Page            int      `json:"page"`
	Limit           int      `json:"limit"`
	SortBy          string   `json:"sort"`
	SortOrder       string   `json:"order"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// JobsSearchCacheKey hashes a normalized filter. Query and location are
// matched case-insensitively, so their case and spacing are folded; exact-match
// fields keep their case.
func JobsSearchCacheKey(f search.FilterSpec) string {
	f = f.Normalize()
	in := jobSearchCacheKeyInput{
		Query:           normalizeSearchValue(f.Query),
		Location:        normalizeSearchValue(f.Location),
		CompanyID:       f.CompanyID,
		Category:        f.Category,
		ExperienceLevel: f.ExperienceLevel,
		EmploymentTypes: f.EmploymentTypes,
		Remote:          f.Remote,
		SalaryMin:       f.SalaryMin,
		SalaryMax:       f.SalaryMax,
		Page:            f.Page,
		Limit:           f.Limit,
		SortBy:          f.SortBy,
		SortOrder:       f.SortOrder,
	}
	return cache.JobsSearchPrefix + hashKey(in)
}

func FeaturedCacheKey(f search.FeaturedSpec) string {
	f = f.Normalize()
	return cache.JobsFeaturedPrefix + hashKey(f)
}

// JobsSearchLockKey derives the rebuild lock guarding searchKey.
func JobsSearchLockKey(searchKey string) string {
	searchKey = strings.TrimSpace(searchKey)
	for _, p := range []string{cache.JobsSearchPrefix, cache.JobsFeaturedPrefix} {
		if strings.HasPrefix(searchKey, p) {
			return cache.JobsLockPrefix + strings.TrimPrefix(searchKey, p)
		}
	}
	return cache.JobsLockPrefix + searchKey
}

func hashKey(v any) string {
	b, _ := json.Marshal(v)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
