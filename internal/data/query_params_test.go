package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func Test_QueryParams_Normalize(t *testing.T) {
	qp := QueryParams{}
	qp.Normalize()
	assert.Equal(t, DefaultPage, qp.Page)
	assert.Equal(t, DefaultPageLimit, qp.PageLimit)
	assert.Equal(t, SortFieldCreatedAt, qp.SortBy)
	assert.Equal(t, SortOrderDESC, qp.SortOrder)

	qp = QueryParams{Page: -2, PageLimit: 1000}
	qp.Normalize()
	assert.Equal(t, DefaultPage, qp.Page)
	assert.Equal(t, MaxPageLimit, qp.PageLimit)
}

func Test_QueryParams_BuildFilter(t *testing.T) {
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	qp := QueryParams{
		Filters: map[FilterKey]interface{}{
			FilterKeyUserID:          "usr-1",
			FilterKeyStatus:          "pending",
			FilterKeyCreatedAtAfter:  after,
			FilterKeyCreatedAtBefore: before,
		},
	}

	filter := qp.BuildFilter()
	assert.Equal(t, "usr-1", filter["user_id"])
	assert.Equal(t, "pending", filter["status"])

	createdAt, ok := filter["created_at"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, after, createdAt["$gte"])
	assert.Equal(t, before, createdAt["$lte"])
}

func Test_QueryParams_BuildFilter_empty(t *testing.T) {
	qp := QueryParams{}
	assert.Empty(t, qp.BuildFilter())
}

func Test_QueryParams_BuildFindOptions(t *testing.T) {
	qp := QueryParams{Page: 3, PageLimit: 25, SortBy: SortFieldAmount, SortOrder: SortOrderASC}
	qp.Normalize()

	opts := qp.BuildFindOptions()
	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(50), *opts.Skip)
	assert.Equal(t, int64(25), *opts.Limit)

	sort, ok := opts.Sort.(bson.D)
	require.True(t, ok)
	require.Len(t, sort, 1)
	assert.Equal(t, "amount", sort[0].Key)
	assert.Equal(t, 1, sort[0].Value)
}
