package service

// pageMeta carries the counts a paginated response reports.
type pageMeta struct {
	ItemCount       int
	PageCount       int
	HasNextPage     bool
	HasPreviousPage bool
}

// paginate slices the ordered key sequence into the requested 1-indexed
// page.  Pagination happens here, after grouping, because the group count
// is unknown until aggregation completes — a page boundary over raw punch
// rows would split sessions.
//
// A page past the end returns an empty slice, not an error.
func paginate(keys []sessionKey, page, pageSize int) ([]sessionKey, pageMeta) {
	count := len(keys)
	pageCount := (count + pageSize - 1) / pageSize

	meta := pageMeta{
		ItemCount:       count,
		PageCount:       pageCount,
		HasNextPage:     page < pageCount,
		HasPreviousPage: page > 1 && pageCount > 0,
	}

	start := (page - 1) * pageSize
	if start >= count {
		return nil, meta
	}
	end := start + pageSize
	if end > count {
		end = count
	}
	return keys[start:end], meta
}
