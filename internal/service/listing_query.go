package service

import (
	"strconv"
	"strings"

	"marketplace/internal/repository"
)

// Sort orders accepted by the listing search.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

const defaultSortField = "id"

// ListingQueryParams holds the raw query string values of a listing search.
type ListingQueryParams struct {
	Limit  string
	Offset string
	Q      string
	Sort   string
	Order  string
}

// ListingMeta describes the page returned by a listing search.
type ListingMeta struct {
	Total  int64  `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Pages  int    `json:"pages"`
	Q      string `json:"q"`
	Sort   string `json:"sort"`
	Order  string `json:"order"`
}

// BuildListingFilter turns raw parameters into a constrained filter. Limits
// that are missing, malformed or not positive fall back to defaultLimit and
// are capped at maxLimit. Bad offsets become 0, unknown sort keys sort by id,
// and anything but "asc" sorts descending.
func BuildListingFilter(params ListingQueryParams, defaultLimit, maxLimit int) (repository.ListingFilter, ListingMeta) {
	limit := parseInt(params.Limit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := parseInt(params.Offset)
	if offset < 0 {
		offset = 0
	}

	q := strings.TrimSpace(params.Q)

	sort := strings.TrimSpace(params.Sort)
	if _, ok := repository.SortColumn(sort); !ok {
		sort = defaultSortField
	}

	order := OrderDesc
	if strings.EqualFold(strings.TrimSpace(params.Order), OrderAsc) {
		order = OrderAsc
	}

	filter := repository.ListingFilter{
		SortField: sort,
		SortDesc:  order == OrderDesc,
		Limit:     limit,
		Offset:    offset,
	}
	if q != "" {
		filter.Pattern = "%" + EscapeLike(strings.ToLower(q)) + "%"
	}

	return filter, ListingMeta{
		Limit:  limit,
		Offset: offset,
		Q:      q,
		Sort:   sort,
		Order:  order,
	}
}

// EscapeLike escapes the LIKE wildcards in s so they match literally with
// ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Pages returns how many pages of size limit are needed for total rows.
func Pages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func parseInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
