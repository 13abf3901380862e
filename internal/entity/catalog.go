package entity

// CatalogItem is one product row of the catalog the shopping flow
// searches. Content is the flat "Label: value, ..." string the
// ingestion script produced per row; Source and RowNum together form
// the stable item identifier "{source}:{row}".
type CatalogItem struct {
	ID      int64  `db:"id" json:"id"`
	Source  string `db:"source" json:"source"`
	RowNum  int    `db:"row_num" json:"row"`
	Content string `db:"content" json:"content"`
}
