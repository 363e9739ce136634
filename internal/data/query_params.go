package data

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage      = 1
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type QueryParams struct {
	Page      int
	PageLimit int
	SortBy    SortField
	SortOrder SortOrder
	Filters   map[FilterKey]interface{}
}

type SortOrder string

const (
	SortOrderASC  SortOrder = "ASC"
	SortOrderDESC SortOrder = "DESC"
)

type SortField string

const (
	SortFieldCreatedAt SortField = "created_at"
	SortFieldUpdatedAt SortField = "updated_at"
	SortFieldAmount    SortField = "amount"
)

type FilterKey string

const (
	FilterKeyUserID          FilterKey = "user_id"
	FilterKeyWalletID        FilterKey = "wallet_id"
	FilterKeyAsset           FilterKey = "asset"
	FilterKeyStatus          FilterKey = "status"
	FilterKeyDirection       FilterKey = "direction"
	FilterKeyCreatedAtAfter  FilterKey = "created_at_after"
	FilterKeyCreatedAtBefore FilterKey = "created_at_before"
)

// Normalize applies defaults and clamps the page limit so a caller cannot ask
// for unbounded result sets.
func (qp *QueryParams) Normalize() {
	if qp.Page < 1 {
		qp.Page = DefaultPage
	}
	if qp.PageLimit < 1 {
		qp.PageLimit = DefaultPageLimit
	}
	if qp.PageLimit > MaxPageLimit {
		qp.PageLimit = MaxPageLimit
	}
	if qp.SortBy == "" {
		qp.SortBy = SortFieldCreatedAt
	}
	if qp.SortOrder == "" {
		qp.SortOrder = SortOrderDESC
	}
}

// BuildFilter translates the filter map into a bson document. The two
// created_at range keys collapse onto the same field.
func (qp *QueryParams) BuildFilter() bson.M {
	filter := bson.M{}
	createdAt := bson.M{}

	for key, value := range qp.Filters {
		switch key {
		case FilterKeyCreatedAtAfter:
			createdAt["$gte"] = value
		case FilterKeyCreatedAtBefore:
			createdAt["$lte"] = value
		default:
			filter[string(key)] = value
		}
	}

	if len(createdAt) > 0 {
		filter["created_at"] = createdAt
	}

	return filter
}

// BuildFindOptions translates pagination and sorting into driver options.
func (qp *QueryParams) BuildFindOptions() *options.FindOptions {
	order := -1
	if qp.SortOrder == SortOrderASC {
		order = 1
	}

	skip := int64((qp.Page - 1) * qp.PageLimit)
	limit := int64(qp.PageLimit)

	return options.Find().
		SetSort(bson.D{{Key: string(qp.SortBy), Value: order}}).
		SetSkip(skip).
		SetLimit(limit)
}
