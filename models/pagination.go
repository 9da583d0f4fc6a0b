package models

// PageParams - контракт пагинации list-операций: 1-индексированная страница
// и размер страницы take.
type PageParams struct {
	Page int `form:"page" json:"page"`
	Take int `form:"take" json:"take"`
}

// Normalize clamps the parameters to sane values.
func (p *PageParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Take <= 0 || p.Take > 100 {
		p.Take = 20
	}
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Take
}

type PageMeta struct {
	Page            int   `json:"page"`
	Take            int   `json:"take"`
	ItemCount       int64 `json:"item_count"`
	PageCount       int   `json:"page_count"`
	HasPreviousPage bool  `json:"has_previous_page"`
	HasNextPage     bool  `json:"has_next_page"`
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// NewPage builds a page envelope around data for the given total item count.
func NewPage[T any](data []T, itemCount int64, p PageParams) Page[T] {
	if data == nil {
		data = []T{}
	}
	pageCount := int((itemCount + int64(p.Take) - 1) / int64(p.Take))
	return Page[T]{
		Data: data,
		Meta: PageMeta{
			Page:            p.Page,
			Take:            p.Take,
			ItemCount:       itemCount,
			PageCount:       pageCount,
			HasPreviousPage: p.Page > 1,
			HasNextPage:     p.Page < pageCount,
		},
	}
}
