package core

// runStep executes fn as one leaf of a Progress tree, labeled for the live
// view CLI front-ends render (spec.md §4.6 "Progress tree"). task may be
// nil, in which case fn runs unobserved.
func runStep(task *Task, label string, fn func() error) error {
	if task == nil {
		return fn()
	}
	child := task.Child(1, label)
	child.Start()
	if err := fn(); err != nil {
		child.Failed()
		return err
	}
	child.Advance(1)
	child.Complete()
	return nil
}
