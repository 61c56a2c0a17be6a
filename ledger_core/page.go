package ledger_core

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PageQuery struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Normalize clamps page to >= 1 and page size to 1..MaxPageSize.
func (p PageQuery) Normalize() PageQuery {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PageQuery) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.PageSize
}

type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPage  int   `json:"totalPage"`
}

func NewPageInfo(page PageQuery, total int64) *PageInfo {
	page = page.Normalize()
	totalPage := int(total) / page.PageSize
	if int(total)%page.PageSize != 0 {
		totalPage++
	}
	return &PageInfo{
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: total,
		TotalPage:  totalPage,
	}
}
