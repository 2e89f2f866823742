package systask

import "asios/kernel"

// Route says where a request code goes: Task 0 handles it locally, any other
// slot gets the call forwarded with its code rewritten to Num.
type Route struct {
	Task kernel.TaskID
	Num  uint8
}

// Routes is the routing table, one entry per possible request code. It is
// filled in before the kernel runs and only read afterwards.
type Routes [256]Route

// Set forwards req to task as request num.
func (r *Routes) Set(req kernel.Request, task kernel.TaskID, num kernel.Request) {
	r[req] = Route{Task: task, Num: uint8(num)}
}

// Route forwards req to task unchanged.
func (r *Routes) Route(task kernel.TaskID, reqs ...kernel.Request) {
	for _, req := range reqs {
		r.Set(req, task, req)
	}
}

// Lookup returns the route for a request code.
func (r *Routes) Lookup(req uint8) Route { return r[req] }

// Targets returns the distinct driver slots in the table.
func (r *Routes) Targets() []kernel.TaskID {
	var seen [256]bool
	var out []kernel.TaskID
	for _, rt := range r {
		if rt.Task == kernel.SystemTask || seen[rt.Task] {
			continue
		}
		seen[rt.Task] = true
		out = append(out, rt.Task)
	}
	return out
}
