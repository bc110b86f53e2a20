package model

// Groups partitions tasks into the four status buckets.
type Groups struct {
	Todo     []Task
	Progress []Task
	Review   []Task
	Done     []Task
}

// Bucket returns the bucket for s. Unknown statuses get nil.
func (g Groups) Bucket(s Status) []Task {
	switch s {
	case StatusTodo:
		return g.Todo
	case StatusProgress:
		return g.Progress
	case StatusReview:
		return g.Review
	case StatusDone:
		return g.Done
	}
	return nil
}

// Len is the number of tasks across all buckets.
func (g Groups) Len() int {
	return len(g.Todo) + len(g.Progress) + len(g.Review) + len(g.Done)
}

// GroupByStatus buckets tasks by status, keeping input order inside each
// bucket. A nil slice yields four empty (non-nil) buckets.
func GroupByStatus(tasks []Task) Groups {
	g := Groups{
		Todo:     []Task{},
		Progress: []Task{},
		Review:   []Task{},
		Done:     []Task{},
	}
	for _, t := range tasks {
		switch t.Status {
		case StatusTodo:
			g.Todo = append(g.Todo, t)
		case StatusProgress:
			g.Progress = append(g.Progress, t)
		case StatusReview:
			g.Review = append(g.Review, t)
		case StatusDone:
			g.Done = append(g.Done, t)
		}
	}
	return g
}
