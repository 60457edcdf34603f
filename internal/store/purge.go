package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/souzacred/crm-backend/internal/errs"
)

// purgeLoop drains a subcollection through readPage/deleteBatch, limit
// documents at a time, and returns the number of documents deleted. Each page
// is deleted in one atomic batch commit before the next page is read, so at
// most limit document refs are held in memory at once. The loop terminates as
// soon as a page comes back short: for a subcollection of size S that is
// ceil(S/limit) commits, and zero commits when S is zero.
//
// This is the iterative form of a delete-page-then-recurse algorithm; an
// explicit loop keeps the stack flat no matter how large the subcollection is.
func purgeLoop(ctx context.Context, limit int, readPage func(context.Context, int) ([]*firestore.DocumentRef, error), deleteBatch func(context.Context, []*firestore.DocumentRef) error) (int, error) {
	total := 0
	for {
		refs, err := readPage(ctx, limit)
		if err != nil {
			return total, err
		}
		if len(refs) == 0 {
			return total, nil
		}

		if err := deleteBatch(ctx, refs); err != nil {
			return total, err
		}
		total += len(refs)

		// A short page means the subcollection is exhausted.
		if len(refs) < limit {
			return total, nil
		}
	}
}

// purgeSubcollection deletes every document under parent's named subcollection
// in batches of at most limit, which stays under Firestore's 500-operation
// batch ceiling.
func purgeSubcollection(ctx context.Context, client *firestore.Client, parent *firestore.DocumentRef, name string, limit int) (int, error) {
	read := func(ctx context.Context, n int) ([]*firestore.DocumentRef, error) {
		// Select() fetches refs only; the documents' data is irrelevant here.
		docs, err := parent.Collection(name).Select().Limit(n).Documents(ctx).GetAll()
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to read subcollection page", err)
		}
		refs := make([]*firestore.DocumentRef, len(docs))
		for i, d := range docs {
			refs[i] = d.Ref
		}
		return refs, nil
	}

	del := func(ctx context.Context, refs []*firestore.DocumentRef) error {
		batch := client.Batch()
		for _, ref := range refs {
			batch.Delete(ref)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return errs.NewDatabaseError("delete", "failed to commit delete batch", err)
		}
		return nil
	}

	return purgeLoop(ctx, limit, read, del)
}
