package notify

import "strings"

// Router turns a delivered alert's payload back into navigation. The payload
// is the opaque task id attached at schedule time; anything missing or
// malformed is silently ignored.
type Router struct {
	navigate func(taskID string)
}

func NewRouter(navigate func(taskID string)) *Router {
	return &Router{navigate: navigate}
}

// HandleResponse routes a tapped alert to the task's edit view.
func (r *Router) HandleResponse(payload string) {
	if r == nil || r.navigate == nil {
		return
	}
	taskID := strings.TrimSpace(payload)
	if taskID == "" {
		return
	}
	r.navigate(taskID)
}
