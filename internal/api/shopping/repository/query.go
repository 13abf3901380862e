package shoppingRepository

const (
	querySearchCatalogItems = `
		SELECT
			id, source, row_num, content
		FROM catalog_items
		WHERE content ILIKE ANY(:patterns)
		ORDER BY id
		LIMIT :limit
	`

	queryAllCatalogItems = `
		SELECT
			id, source, row_num, content
		FROM catalog_items
		ORDER BY id
		LIMIT :limit
	`
)
