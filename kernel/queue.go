package kernel

// queue is an intrusive FIFO of task slots. Links live in the task records, so
// a task can be on at most one queue at a time.
type queue struct {
	head TaskID
	tail TaskID
	n    int
}

func (q *queue) empty() bool { return q.n == 0 }

func (q *queue) len() int { return q.n }

// enqueue appends id to q. Linking a task that is already queued somewhere
// is a kernel bug.
func (k *Kernel) enqueue(q *queue, id TaskID) {
	t := &k.tasks[id]
	if t.linked {
		k.fatal("task %d already queued", id)
	}
	t.linked = true
	t.next = 0
	if q.n == 0 {
		q.head = id
	} else {
		k.tasks[q.tail].next = id
	}
	q.tail = id
	q.n++
}

// dequeue pops the head of q.
func (k *Kernel) dequeue(q *queue) (TaskID, bool) {
	if q.n == 0 {
		return 0, false
	}
	id := q.head
	t := &k.tasks[id]
	q.head = t.next
	q.n--
	t.next = 0
	t.linked = false
	return id, true
}

// unlink removes id from q, reporting whether it was there.
func (k *Kernel) unlink(q *queue, id TaskID) bool {
	prev := TaskID(0)
	cur := q.head
	for i := 0; i < q.n; i++ {
		if cur == id {
			t := &k.tasks[id]
			if i == 0 {
				q.head = t.next
			} else {
				k.tasks[prev].next = t.next
			}
			if q.tail == id {
				q.tail = prev
			}
			q.n--
			t.next = 0
			t.linked = false
			return true
		}
		prev = cur
		cur = k.tasks[cur].next
	}
	return false
}

// contains reports whether id is on q.
func (k *Kernel) contains(q *queue, id TaskID) bool {
	cur := q.head
	for i := 0; i < q.n; i++ {
		if cur == id {
			return true
		}
		cur = k.tasks[cur].next
	}
	return false
}

// ids returns the queue contents in order.
func (k *Kernel) ids(q *queue) []TaskID {
	out := make([]TaskID, 0, q.n)
	cur := q.head
	for i := 0; i < q.n; i++ {
		out = append(out, cur)
		cur = k.tasks[cur].next
	}
	return out
}
