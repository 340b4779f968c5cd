package search

import "container/heap"

// pqItem is one entry in the priority queue: an arena index ordered by
// (cost, time), ties broken by insertion sequence. Labels are deliberately
// never compared structurally here — that would be both expensive and
// unnecessary.
type pqItem struct {
	idx  int
	cost float64
	time int64
	seq  int
}

type priorityQueue []pqItem

func (q priorityQueue) Len() int { return len(q) }

func (q priorityQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}

func (q priorityQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *priorityQueue) Push(x interface{}) { *q = append(*q, x.(pqItem)) }

func (q *priorityQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

var _ = heap.Interface(&priorityQueue{})
