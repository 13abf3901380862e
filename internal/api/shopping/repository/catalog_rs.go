package shoppingRepository

import (
	"Eventra/internal/entity"
	contextPkg "Eventra/pkg/context"
	"Eventra/pkg/fuzzy"
	"context"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// candidateFetchFactor controls how many raw rows are pulled per
// requested hit before re-scoring; ILIKE matching alone is too coarse
// to order by.
const candidateFetchFactor = 5

// Search finds catalog rows matching the free-text query. Rows are
// pre-filtered in SQL by token containment, then re-scored in process
// with token-set similarity so the ordering reflects how much of the
// query each row covers.
func (r *catalogRepository) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if limit <= 0 {
		limit = 10
	}

	rows, err := r.fetchCandidates(ctx, query, limit*candidateFetchFactor)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"query":      query,
			"error":      err.Error(),
		}).Error("Database error when searching catalog")
		return nil, err
	}

	cleaned := fuzzy.CleanText(query)
	hits := make([]SearchHit, 0, len(rows))
	for _, row := range rows {
		score := fuzzy.TokenSetRatio(cleaned, fuzzy.CleanText(row.Content))
		if strings.Contains(strings.ToLower(row.Content), strings.ToLower(strings.TrimSpace(query))) {
			score = 100
		}
		hits = append(hits, SearchHit{Item: row, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	for i := range hits {
		hits[i].Rank = i
	}

	return hits, nil
}

func (r *catalogRepository) fetchCandidates(ctx context.Context, query string, fetchLimit int) ([]entity.CatalogItem, error) {
	patterns := likePatterns(query)

	var (
		sqlQuery string
		argsKV   map[string]interface{}
	)
	if len(patterns) == 0 {
		sqlQuery = queryAllCatalogItems
		argsKV = map[string]interface{}{
			"limit": fetchLimit,
		}
	} else {
		sqlQuery = querySearchCatalogItems
		argsKV = map[string]interface{}{
			"patterns": pq.Array(patterns),
			"limit":    fetchLimit,
		}
	}

	namedQuery, args, err := sqlx.Named(sqlQuery, argsKV)
	if err != nil {
		return nil, err
	}
	namedQuery = r.q.Rebind(namedQuery)

	var rows []entity.CatalogItem
	if err := r.q.SelectContext(ctx, &rows, namedQuery, args...); err != nil {
		return nil, err
	}

	return rows, nil
}

func likePatterns(query string) []string {
	var patterns []string
	for _, token := range strings.Fields(fuzzy.CleanText(query)) {
		if len(token) < 3 {
			continue
		}
		patterns = append(patterns, "%"+token+"%")
	}
	return patterns
}
