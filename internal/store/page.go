package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/errs"
)

// pager turns a dto.PageRequest into a bounded Firestore query. The same
// ordered field drives the main query, the cursor resolution and the skip
// query, so a cursor stays valid only under the filter/order shape that
// produced it.
type pager struct {
	col        *firestore.CollectionRef
	orderField string
	dir        firestore.Direction
}

func newPager(col *firestore.CollectionRef, orderField string, dir firestore.Direction) pager {
	return pager{col: col, orderField: orderField, dir: dir}
}

// page returns one page of snapshots plus the full-match total. filtered must
// already carry the caller's filters; req must be validated and normalized.
//
// Cursor mode starts strictly after the cursor document. A cursor pointing at
// a deleted document falls back to the first page rather than failing.
//
// Page-number mode derives an equivalent cursor by running a throwaway query
// of (page-1)*pageSize documents and starting after its last result. That is
// O(page * pageSize) document reads per call, which is acceptable at this
// data volume and deliberately not cached.
func (p pager) page(ctx context.Context, filtered firestore.Query, req dto.PageRequest) ([]*firestore.DocumentSnapshot, int, error) {
	q := filtered.OrderBy(p.orderField, p.dir)

	switch {
	case req.Cursor != "":
		snap, err := p.col.Doc(req.Cursor).Get(ctx)
		if err != nil && status.Code(err) != codes.NotFound {
			return nil, 0, errs.NewDatabaseError("read", "failed to resolve page cursor", err)
		}
		if snap != nil && snap.Exists() {
			q = q.StartAfter(snap)
		}

	case req.Page > 1:
		skip := (req.Page - 1) * req.PageSize
		skipped, err := q.Limit(skip).Documents(ctx).GetAll()
		if err != nil {
			return nil, 0, errs.NewDatabaseError("read", "failed to skip to requested page", err)
		}
		if len(skipped) > 0 {
			q = q.StartAfter(skipped[len(skipped)-1])
		}
	}

	docs, err := q.Limit(req.PageSize).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errs.NewDatabaseError("read", "failed to read page", err)
	}

	total, err := countAll(ctx, filtered)
	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// countAll runs a server-side aggregate count over the filtered query. This is
// recounted on every call rather than kept in a counter document; the accuracy
// is worth the extra read at current volumes.
func countAll(ctx context.Context, q firestore.Query) (int, error) {
	res, err := q.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to count documents", err)
	}
	v, ok := res["total"].(*firestorepb.Value)
	if !ok {
		return 0, errs.NewDatabaseError("read", "unexpected count aggregation result", nil)
	}
	return int(v.GetIntegerValue()), nil
}

// decodeAll unmarshals snapshots into T, keeping the document ID authoritative
// over whatever the stored id field says.
func decodeAll[T any](docs []*firestore.DocumentSnapshot, setID func(*T, string)) ([]T, error) {
	items := make([]T, 0, len(docs))
	for _, d := range docs {
		var item T
		if err := d.DataTo(&item); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse document data", err)
		}
		if setID != nil {
			setID(&item, d.Ref.ID)
		}
		items = append(items, item)
	}
	return items, nil
}

// lastID is the next-cursor candidate for a page of snapshots.
func lastID(docs []*firestore.DocumentSnapshot) string {
	if len(docs) == 0 {
		return ""
	}
	return docs[len(docs)-1].Ref.ID
}
