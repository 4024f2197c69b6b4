package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReceiptAddAccumulatesTotal(t *testing.T) {
	r := NewReceipt()
	now := time.Now()
	r.Add(3, now)
	r.Add(4, now)

	assert.Equal(t, Cost(7), r.TotalCost())
	assert.Equal(t, 2, r.Len())
}

func TestReceiptMergeAppendsInOrder(t *testing.T) {
	a := NewReceipt()
	a.Add(1, time.Now())
	b := NewReceipt()
	b.Add(2, time.Now())
	b.Add(3, time.Now())

	a.Merge(b)
	assert.Equal(t, Cost(6), a.TotalCost())
	assert.Equal(t, 3, a.Len())
}

func TestReceiptMergeNilIsNoOp(t *testing.T) {
	a := NewReceipt()
	a.Add(5, time.Now())
	a.Merge(nil)
	assert.Equal(t, Cost(5), a.TotalCost())
}

func TestReceiptItemsIsDefensiveCopy(t *testing.T) {
	r := NewReceipt()
	r.Add(1, time.Now())

	items := r.Items()
	items[0].Cost = 99

	assert.Equal(t, Cost(1), r.TotalCost())
}
