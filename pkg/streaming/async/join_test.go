package async

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/vnykmshr/lazyflow/internal/testutil"
	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
)

type account struct {
	ID    int
	Owner string
}

type transfer struct {
	AccountID int
	Amount    int
}

var (
	accounts  = []account{{1, "ann"}, {2, "bob"}, {3, "cid"}}
	transfers = []transfer{{1, 50}, {3, 20}, {1, 5}, {9, 70}}

	accountID = func(a account) int { return a.ID }
	payerID   = func(t transfer) int { return t.AccountID }
)

func TestJoin(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	inner, err := Join(FromSlice(accounts), FromSlice(transfers), accountID, payerID,
		func(a account, t transfer) int { return a.ID*100 + t.Amount },
	).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, inner, []int{105, 320})

	where, err := JoinWhere(FromSlice(accounts), FromSlice(transfers),
		func(a account, t transfer) int { return t.Amount },
		func(a account, t transfer) bool { return a.ID == t.AccountID },
	).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, where, []int{50, 5, 20})
}

func TestLeftJoin(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	rows, err := LeftJoin(FromSlice(accounts), FromSlice(transfers), accountID, payerID,
		func(a account, t transfer, found bool) string {
			if !found {
				return a.Owner + ":none"
			}
			return a.Owner + ":ok"
		},
	).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, rows, []string{"ann:ok", "bob:none", "cid:ok"})
}

func TestGroupJoin(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	totals, err := GroupJoin(FromSlice(accounts), FromSlice(transfers), accountID, payerID,
		func(a account, ts Stream[transfer]) int {
			sum, _ := Fold(ctx, ts, 0, func(_ context.Context, acc int, t transfer) (int, error) {
				return acc + t.Amount, nil
			})
			return sum
		},
	).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, totals, []int{55, 0, 20})
}

func TestJoin_InnerDrainedPerIteration(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	loads := 0
	inner := FromFunc(func(context.Context) ([]transfer, error) {
		loads++
		return transfers, nil
	})
	joined := Join(FromSlice(accounts), inner, accountID, payerID,
		func(a account, _ transfer) string { return a.Owner })

	_, err := joined.ToSlice(ctx)
	testutil.AssertNoError(t, err)
	_, err = joined.Count(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, loads, 2)

	// Take(0) never opens either side.
	_, err = joined.Take(0).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, loads, 2)
}

func TestJoin_ErrorsCloseBothSides(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	boom := errors.New("inner failed")
	outer := testutil.NewMockSource(accounts...)
	inner := testutil.NewMockSource(transfers...).FailAt(2, boom)

	_, err := LeftJoin(FromSource[account](outer), FromSource[transfer](inner), accountID, payerID,
		func(a account, _ transfer, _ bool) int { return a.ID },
	).ToSlice(ctx)

	testutil.AssertErrorIs(t, err, boom)
	testutil.AssertEqual(t, outer.Pulled(), 0)
	testutil.AssertEqual(t, outer.Closed(), true)
	testutil.AssertEqual(t, inner.Closed(), true)
}

func TestGroupBy(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	groups, err := GroupBy(FromSlice(transfers), func(t transfer) bool { return t.Amount >= 50 }).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(groups), 2)

	testutil.AssertEqual(t, groups[0].Key, true)
	large, err := groups[0].Items.ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, large, []transfer{{1, 50}, {9, 70}})

	testutil.AssertEqual(t, groups[1].Key, false)
	n, err := groups[1].Items.Count(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, 2)
}

func TestGroupBy_NaNKeys(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	nan := math.NaN()
	groups, err := GroupBy(Of(nan, 1.0, nan), func(f float64) float64 { return f }).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(groups), 2)

	if !math.IsNaN(groups[0].Key) {
		t.Fatalf("first key: got %v, want NaN", groups[0].Key)
	}
	n, err := groups[0].Items.Count(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, 2)
}

func TestJoin_FailedInputs(t *testing.T) {
	bad := Of(1).Skip(-1)
	key := func(n int) int { return n }

	err := Join(Of(1), bad, key, key, func(a, _ int) int { return a }).Err()
	testutil.AssertErrorIs(t, err, lferrors.ErrInvalidArgument)

	err = GroupBy(bad, key).Err()
	testutil.AssertErrorIs(t, err, lferrors.ErrInvalidArgument)

	err = JoinWhere[int, int, int](Of(1), Of(1), nil, nil).Err()
	testutil.AssertErrorIs(t, err, lferrors.ErrInvalidArgument)
}
